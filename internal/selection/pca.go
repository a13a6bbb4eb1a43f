package selection

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"szclassifier/internal/preprocessing"
)

// PCASelector projects standardized features onto their leading principal
// components, computed by thin SVD of the training matrix. Either a fixed
// component count or an explained-variance threshold picks how many
// components survive. Held-out rows are standardized with the training
// statistics and projected with the same loading matrix.
type PCASelector struct {
	Components        int
	VarianceThreshold float64

	scaler    *preprocessing.StandardScaler
	loadings  *mat.Dense
	Retained  int
	Explained []float64
}

func NewPCASelector(components int, varianceThreshold float64) *PCASelector {
	if components <= 0 && (varianceThreshold <= 0 || varianceThreshold > 1) {
		varianceThreshold = 0.95
	}

	return &PCASelector{
		Components:        components,
		VarianceThreshold: varianceThreshold,
	}
}

func (p *PCASelector) Name() string {
	return "pca"
}

func (p *PCASelector) Fit(X [][]float64, y []int) error {
	if len(X) == 0 || len(X[0]) == 0 {
		return fmt.Errorf("%w: empty training matrix", ErrSelectorFit)
	}

	p.scaler = preprocessing.NewStandardScaler()
	XScaled, err := p.scaler.FitTransform(X)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSelectorFit, err)
	}

	n, d := len(XScaled), len(XScaled[0])
	dense := mat.NewDense(n, d, nil)
	for i, row := range XScaled {
		dense.SetRow(i, row)
	}

	var svd mat.SVD
	if ok := svd.Factorize(dense, mat.SVDThin); !ok {
		return fmt.Errorf("%w: SVD did not converge", ErrSelectorFit)
	}

	singular := svd.Values(nil)
	total := 0.0
	for _, s := range singular {
		total += s * s
	}
	if total == 0 {
		return fmt.Errorf("%w: training matrix has no variance", ErrSelectorFit)
	}

	p.Explained = make([]float64, len(singular))
	for i, s := range singular {
		p.Explained[i] = s * s / total
	}

	k := p.Components
	if k <= 0 {
		cumulative := 0.0
		for i, frac := range p.Explained {
			cumulative += frac
			if cumulative >= p.VarianceThreshold {
				k = i + 1
				break
			}
		}
		if k <= 0 {
			k = len(singular)
		}
	}
	if k > len(singular) {
		k = len(singular)
	}
	p.Retained = k

	var v mat.Dense
	svd.VTo(&v)
	p.loadings = mat.NewDense(d, k, nil)
	p.loadings.Copy(v.Slice(0, d, 0, k))

	return nil
}

func (p *PCASelector) Transform(X [][]float64) [][]float64 {
	XScaled, err := p.scaler.Transform(X)
	if err != nil {
		XScaled = X
	}

	result := make([][]float64, len(XScaled))
	row := mat.NewVecDense(len(p.scaler.FeatureMean), nil)
	var projected mat.VecDense

	for i, sample := range XScaled {
		for j, v := range sample {
			row.SetVec(j, v)
		}
		projected.MulVec(p.loadings.T(), row)

		result[i] = make([]float64, p.Retained)
		for j := 0; j < p.Retained; j++ {
			result[i][j] = projected.AtVec(j)
		}
	}

	return result
}
