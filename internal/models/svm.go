package models

import (
	"fmt"
	"math/rand"

	"szclassifier/internal/preprocessing"
)

// LinearSVM is a soft-margin linear SVM trained with stochastic subgradient
// descent on the L2-regularized hinge loss. Features are standardized
// internally on the training rows. When more than one C is configured, the
// best value is chosen by 3-fold cross-validation inside the training
// partition, so the outer held-out fold never leaks into the search.
// PredictProba squashes the signed margin through a logistic, which keeps
// the ranking (and therefore the AUC) of the raw decision values.
type LinearSVM struct {
	BaseModel
	Cs     []float64
	Epochs int
	Seed   int64

	C       float64
	Weights []float64
	Bias    float64
	scaler  *preprocessing.StandardScaler
}

func NewLinearSVM(cs []float64, epochs int, seed int64) *LinearSVM {
	if len(cs) == 0 {
		cs = []float64{1.0}
	}
	if epochs <= 0 {
		epochs = 200
	}

	return &LinearSVM{
		Cs:     cs,
		Epochs: epochs,
		Seed:   seed,
		BaseModel: BaseModel{
			ModelName: "svm",
			ModelParams: map[string]any{
				"c":      cs,
				"epochs": epochs,
			},
		},
	}
}

func (svm *LinearSVM) Fit(X [][]float64, y []int) error {
	if err := checkTrainingData(X, y); err != nil {
		return fmt.Errorf("%w: svm needs a non-empty training matrix", err)
	}

	bestC := svm.Cs[0]
	if len(svm.Cs) > 1 {
		bestC = svm.searchC(X, y)
	}
	svm.C = bestC

	svm.scaler = preprocessing.NewStandardScaler()
	XScaled, err := svm.scaler.FitTransform(X)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelFit, err)
	}

	rng := rand.New(rand.NewSource(svm.Seed))
	svm.Weights, svm.Bias = trainHinge(XScaled, y, bestC, svm.Epochs, rng)
	return nil
}

func (svm *LinearSVM) searchC(X [][]float64, y []int) float64 {
	rng := rand.New(rand.NewSource(svm.Seed))
	trainSets, valSets := innerFolds(len(X), 3, rng)

	bestC := svm.Cs[0]
	bestScore := -1.0

	for _, c := range svm.Cs {
		score := 0.0
		for f := range trainSets {
			XTrain, yTrain := subsetRows(X, y, trainSets[f])
			XVal, yVal := subsetRows(X, y, valSets[f])

			candidate := NewLinearSVM([]float64{c}, svm.Epochs, svm.Seed)
			score += validationAccuracy(candidate, XTrain, yTrain, XVal, yVal)
		}
		score /= float64(len(trainSets))

		if score > bestScore {
			bestScore = score
			bestC = c
		}
	}

	return bestC
}

// trainHinge runs SGD on the averaged hinge loss with L2 strength
// lambda = 1/(C*n) and a decaying step size. The bias term is left
// unregularized.
func trainHinge(X [][]float64, y []int, c float64, epochs int, rng *rand.Rand) ([]float64, float64) {
	n := len(X)
	dim := len(X[0])
	lambda := 1.0 / (c * float64(n))
	const eta0 = 0.5

	weights := make([]float64, dim)
	bias := 0.0

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	t := 0
	for epoch := 0; epoch < epochs; epoch++ {
		rng.Shuffle(n, func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		for _, i := range order {
			t++
			eta := eta0 / (1.0 + eta0*lambda*float64(t))

			label := -1.0
			if y[i] == 1 {
				label = 1.0
			}

			margin := bias
			for j := 0; j < dim; j++ {
				margin += weights[j] * X[i][j]
			}
			margin *= label

			decay := 1.0 - eta*lambda
			if decay < 0 {
				decay = 0
			}

			for j := 0; j < dim; j++ {
				weights[j] *= decay
			}
			if margin < 1 {
				for j := 0; j < dim; j++ {
					weights[j] += eta * label * X[i][j]
				}
				bias += eta * label
			}
		}
	}

	return weights, bias
}

func (svm *LinearSVM) PredictProba(X [][]float64) []float64 {
	XScaled, err := svm.scaler.Transform(X)
	if err != nil {
		XScaled = X
	}

	probs := make([]float64, len(XScaled))
	for i, sample := range XScaled {
		score := svm.Bias
		for j := range sample {
			score += svm.Weights[j] * sample[j]
		}
		probs[i] = sigmoid(score)
	}

	return probs
}

func (svm *LinearSVM) Clone() Model {
	return NewLinearSVM(svm.Cs, svm.Epochs, svm.Seed)
}

func subsetRows(X [][]float64, y []int, indices []int) ([][]float64, []int) {
	subX := make([][]float64, len(indices))
	subY := make([]int, len(indices))
	for i, idx := range indices {
		subX[i] = X[idx]
		subY[i] = y[idx]
	}
	return subX, subY
}
