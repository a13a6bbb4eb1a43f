package selection

import (
	"errors"
	"fmt"
)

var ErrSelectorFit = errors.New("selector fit failed")

// Selector reduces the feature space. Fit must only ever see the training
// partition of a fold; Transform applies the fitted reduction to any rows
// with the same schema. Fit fully resets any previous state, so a selector
// may be reused across folds.
type Selector interface {
	Name() string
	Fit(X [][]float64, y []int) error
	Transform(X [][]float64) [][]float64
}

type Config struct {
	TopK              int
	Stat              string
	Components        int
	VarianceThreshold float64
	MaxFeatures       int
}

func FromConfig(name string, config Config) (Selector, error) {
	switch name {
	case "none":
		return NewPassthrough(), nil

	case "rank":
		return NewRankSelector(config.TopK, config.Stat), nil

	case "pca":
		return NewPCASelector(config.Components, config.VarianceThreshold), nil

	case "stepwise":
		return NewForwardSelector(config.MaxFeatures), nil

	default:
		return nil, fmt.Errorf("unknown selector: %s", name)
	}
}

// Bank lists the selector names in their reporting order.
func Bank() []string {
	return []string{"none", "rank", "pca", "stepwise"}
}

// Passthrough keeps the full feature set, so classifiers can also be
// compared without any selection.
type Passthrough struct{}

func NewPassthrough() *Passthrough {
	return &Passthrough{}
}

func (p *Passthrough) Name() string {
	return "none"
}

func (p *Passthrough) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("%w: empty training matrix", ErrSelectorFit)
	}
	return nil
}

func (p *Passthrough) Transform(X [][]float64) [][]float64 {
	return X
}

// subsetColumns copies the given feature columns out of X.
func subsetColumns(X [][]float64, features []int) [][]float64 {
	result := make([][]float64, len(X))
	for i, row := range X {
		result[i] = make([]float64, len(features))
		for j, feat := range features {
			result[i][j] = row[feat]
		}
	}
	return result
}
