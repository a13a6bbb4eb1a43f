package preprocessing

import (
	"fmt"
	"math"
)

// StandardScaler z-scores each feature using statistics from the data it was
// fitted on. Fitting happens on the training partition only; held-out rows
// are transformed with the training statistics.
type StandardScaler struct {
	FeatureMean []float64
	FeatureStd  []float64
	IsFitted    bool
}

func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 || len(X[0]) == 0 {
		return fmt.Errorf("cannot fit scaler on empty data")
	}

	nFeatures := len(X[0])
	nSamples := float64(len(X))
	s.FeatureMean = make([]float64, nFeatures)
	s.FeatureStd = make([]float64, nFeatures)

	for j := 0; j < nFeatures; j++ {
		sum := 0.0
		for i := range X {
			sum += X[i][j]
		}
		s.FeatureMean[j] = sum / nSamples
	}

	for j := 0; j < nFeatures; j++ {
		variance := 0.0
		for i := range X {
			diff := X[i][j] - s.FeatureMean[j]
			variance += diff * diff
		}
		s.FeatureStd[j] = math.Sqrt(variance / nSamples)

		// Constant features map to zero instead of dividing by zero.
		if s.FeatureStd[j] == 0 {
			s.FeatureStd[j] = 1
		}
	}

	s.IsFitted = true
	return nil
}

func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if !s.IsFitted {
		return nil, fmt.Errorf("scaler must be fitted before transform")
	}

	result := make([][]float64, len(X))
	for i := range X {
		if len(X[i]) != len(s.FeatureMean) {
			return nil, fmt.Errorf("expected %d features, got %d", len(s.FeatureMean), len(X[i]))
		}
		result[i] = make([]float64, len(X[i]))
		for j := range X[i] {
			result[i][j] = (X[i][j] - s.FeatureMean[j]) / s.FeatureStd[j]
		}
	}

	return result, nil
}

func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
