package models

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// BaggedLeastSquares is an ensemble of ridge least-squares regressors, each
// fit on a bootstrap resample of the training fold against the 0/1 label.
// The ensemble probability is the average predicted score clamped to [0,1].
type BaggedLeastSquares struct {
	BaseModel
	NEstimators int
	Lambda      float64
	Seed        int64

	// Coefs holds one (intercept, weights...) vector per estimator.
	Coefs [][]float64
}

func NewBaggedLeastSquares(nEstimators int, lambda float64, seed int64) *BaggedLeastSquares {
	if nEstimators <= 0 {
		nEstimators = 30
	}
	if lambda <= 0 {
		lambda = 1e-2
	}

	return &BaggedLeastSquares{
		NEstimators: nEstimators,
		Lambda:      lambda,
		Seed:        seed,
		BaseModel: BaseModel{
			ModelName: "bag-ls",
			ModelParams: map[string]any{
				"n_estimators": nEstimators,
				"lambda":       lambda,
			},
		},
	}
}

func (bg *BaggedLeastSquares) Fit(X [][]float64, y []int) error {
	if err := checkTrainingData(X, y); err != nil {
		return fmt.Errorf("%w: bagged least squares needs a non-empty training matrix", err)
	}

	bg.Coefs = make([][]float64, 0, bg.NEstimators)

	for i := 0; i < bg.NEstimators; i++ {
		rng := rand.New(rand.NewSource(bg.Seed + int64(i)))
		XBoot, yBoot := bootstrapSample(X, y, rng)

		coef, err := ridgeSolve(XBoot, yBoot, bg.Lambda)
		if err != nil {
			return fmt.Errorf("estimator %d solve failed: %w", i, err)
		}
		bg.Coefs = append(bg.Coefs, coef)
	}

	return nil
}

// ridgeSolve solves (A'A + lambda*I) beta = A'y for the design matrix with a
// leading intercept column. The intercept is not penalized.
func ridgeSolve(X [][]float64, y []int, lambda float64) ([]float64, error) {
	n := len(X)
	p := len(X[0]) + 1

	a := mat.NewDense(n, p, nil)
	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		a.Set(i, 0, 1.0)
		for j, v := range X[i] {
			a.Set(i, j+1, v)
		}
		b.SetVec(i, float64(y[i]))
	}

	var ata mat.Dense
	ata.Mul(a.T(), a)
	for j := 1; j < p; j++ {
		ata.Set(j, j, ata.At(j, j)+lambda)
	}

	var atb mat.VecDense
	atb.MulVec(a.T(), b)

	var beta mat.VecDense
	if err := beta.SolveVec(&ata, &atb); err != nil {
		return nil, err
	}

	coef := make([]float64, p)
	for j := 0; j < p; j++ {
		coef[j] = beta.AtVec(j)
	}
	return coef, nil
}

func (bg *BaggedLeastSquares) PredictProba(X [][]float64) []float64 {
	probs := make([]float64, len(X))

	for i, sample := range X {
		sum := 0.0
		for _, coef := range bg.Coefs {
			score := coef[0]
			for j, v := range sample {
				score += coef[j+1] * v
			}
			sum += score
		}
		probs[i] = clamp01(sum / float64(len(bg.Coefs)))
	}

	return probs
}

func (bg *BaggedLeastSquares) Clone() Model {
	return NewBaggedLeastSquares(bg.NEstimators, bg.Lambda, bg.Seed)
}
