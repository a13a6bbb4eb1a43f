package selection

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ForwardSelector does stepwise forward selection: starting from the empty
// set, it repeatedly adds the feature whose ordinary least-squares fit of the
// 0/1 label gives the lowest AIC, stopping when no candidate improves the
// criterion or MaxFeatures is reached. AIC = n*ln(RSS/n) + 2k, counting the
// intercept in k. Candidates are scanned in ascending feature order with
// strict improvement required, so ties go to the lowest feature index and the
// procedure is deterministic. At least one feature is always retained.
type ForwardSelector struct {
	MaxFeatures int
	Selected    []int
}

func NewForwardSelector(maxFeatures int) *ForwardSelector {
	return &ForwardSelector{MaxFeatures: maxFeatures}
}

func (fs *ForwardSelector) Name() string {
	return "stepwise"
}

func (fs *ForwardSelector) Fit(X [][]float64, y []int) error {
	if len(X) == 0 || len(X[0]) == 0 {
		return fmt.Errorf("%w: empty training matrix", ErrSelectorFit)
	}

	n := len(X)
	nFeatures := len(X[0])

	limit := fs.MaxFeatures
	if limit <= 0 || limit > nFeatures {
		limit = nFeatures
	}
	// Keep the design matrix overdetermined.
	if limit > n-2 {
		limit = n - 2
	}
	if limit < 1 {
		limit = 1
	}

	fs.Selected = nil
	inSet := make([]bool, nFeatures)
	currentAIC := math.Inf(1)

	for len(fs.Selected) < limit {
		bestFeature := -1
		bestAIC := math.Inf(1)

		for j := 0; j < nFeatures; j++ {
			if inSet[j] {
				continue
			}

			candidate := append(append([]int{}, fs.Selected...), j)
			aic, err := fs.aic(X, y, candidate)
			if err != nil {
				continue
			}
			if aic < bestAIC {
				bestAIC = aic
				bestFeature = j
			}
		}

		if bestFeature < 0 {
			break
		}

		if bestAIC >= currentAIC-1e-9 {
			break
		}

		fs.Selected = append(fs.Selected, bestFeature)
		inSet[bestFeature] = true
		currentAIC = bestAIC
	}

	if len(fs.Selected) == 0 {
		return fmt.Errorf("%w: no feature produced a solvable least-squares fit", ErrSelectorFit)
	}

	return nil
}

func (fs *ForwardSelector) aic(X [][]float64, y []int, features []int) (float64, error) {
	n := len(X)
	p := len(features) + 1

	a := mat.NewDense(n, p, nil)
	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		a.Set(i, 0, 1.0)
		for c, feat := range features {
			a.Set(i, c+1, X[i][feat])
		}
		b.SetVec(i, float64(y[i]))
	}

	var beta mat.VecDense
	if err := beta.SolveVec(a, b); err != nil {
		return 0, err
	}

	var fitted mat.VecDense
	fitted.MulVec(a, &beta)

	rss := 0.0
	for i := 0; i < n; i++ {
		diff := b.AtVec(i) - fitted.AtVec(i)
		rss += diff * diff
	}

	// Guard against a perfect fit driving ln(0).
	const floor = 1e-12
	if rss < floor {
		rss = floor
	}

	return float64(n)*math.Log(rss/float64(n)) + 2*float64(p), nil
}

func (fs *ForwardSelector) Transform(X [][]float64) [][]float64 {
	return subsetColumns(X, fs.Selected)
}
