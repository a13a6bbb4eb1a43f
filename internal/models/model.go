package models

import (
	"errors"
	"math"
	"math/rand"
)

var ErrModelFit = errors.New("model fit failed")

// Model is the classifier contract: fit on a training partition, then emit
// the probability of the positive (patient) class for new rows. Clone returns
// a fresh unfitted copy with the same hyperparameters so each fold trains its
// own instance.
type Model interface {
	Name() string
	Params() map[string]any
	Fit(X [][]float64, y []int) error
	PredictProba(X [][]float64) []float64
	Clone() Model
}

type BaseModel struct {
	ModelName   string
	ModelParams map[string]any
}

func (bm *BaseModel) Name() string {
	return bm.ModelName
}

func (bm *BaseModel) Params() map[string]any {
	return bm.ModelParams
}

func checkTrainingData(X [][]float64, y []int) error {
	if len(X) == 0 || len(X) != len(y) {
		return ErrModelFit
	}
	if len(X[0]) == 0 {
		return ErrModelFit
	}
	return nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// bootstrapSample draws n rows with replacement.
func bootstrapSample(X [][]float64, y []int, rng *rand.Rand) ([][]float64, []int) {
	n := len(X)
	XBoot := make([][]float64, n)
	yBoot := make([]int, n)
	for i := 0; i < n; i++ {
		idx := rng.Intn(n)
		XBoot[i] = X[idx]
		yBoot[i] = y[idx]
	}
	return XBoot, yBoot
}

// innerFolds partitions training rows into k contiguous validation blocks
// after a seeded shuffle. Used only for hyperparameter search inside a
// training fold, so the outer held-out fold is never touched.
func innerFolds(n, k int, rng *rand.Rand) (train [][]int, val [][]int) {
	if k > n {
		k = n
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	train = make([][]int, k)
	val = make([][]int, k)
	foldSize := n / k

	for f := 0; f < k; f++ {
		start := f * foldSize
		end := start + foldSize
		if f == k-1 {
			end = n
		}

		val[f] = append(val[f], indices[start:end]...)
		train[f] = append(train[f], indices[:start]...)
		train[f] = append(train[f], indices[end:]...)
	}

	return train, val
}

// validationAccuracy scores a candidate configuration during inner CV.
func validationAccuracy(m Model, XTrain [][]float64, yTrain []int, XVal [][]float64, yVal []int) float64 {
	if err := m.Fit(XTrain, yTrain); err != nil {
		return math.Inf(-1)
	}

	probs := m.PredictProba(XVal)
	correct := 0
	for i, p := range probs {
		pred := 0
		if p >= 0.5 {
			pred = 1
		}
		if pred == yVal[i] {
			correct++
		}
	}

	return float64(correct) / float64(len(yVal))
}
