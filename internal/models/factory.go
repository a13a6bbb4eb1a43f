package models

import (
	"fmt"
)

type ModelConfig struct {
	Algorithm     string
	C             []float64
	Epochs        int
	NTrees        int
	MaxDepth      int
	MinSplit      int
	NEstimators   int
	Lambda        float64
	HiddenSizes   []int
	LearningRates []float64
	Seed          int64
}

func Create(config ModelConfig) (Model, error) {
	switch config.Algorithm {
	case "svm":
		return NewLinearSVM(config.C, config.Epochs, config.Seed), nil

	case "forest":
		return NewRandomForest(config.NTrees, config.MaxDepth, config.MinSplit, config.Seed), nil

	case "tree":
		return NewDecisionTree(config.MaxDepth, config.MinSplit), nil

	case "bag-ls":
		return NewBaggedLeastSquares(config.NEstimators, config.Lambda, config.Seed), nil

	case "mlp":
		return NewMLP(config.HiddenSizes, config.LearningRates, config.Epochs, config.Seed), nil

	default:
		return nil, fmt.Errorf("unknown algorithm: %s", config.Algorithm)
	}
}

// Bank lists the classifier names in their reporting order.
func Bank() []string {
	return []string{"svm", "forest", "tree", "bag-ls", "mlp"}
}
