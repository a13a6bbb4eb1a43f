package models

import (
	"math/rand"
	"reflect"
	"testing"
)

// blobs builds two well-separated gaussian clusters in nFeatures dimensions.
func blobs(n, nFeatures int, seed int64) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]int, n)

	for i := 0; i < n; i++ {
		X[i] = make([]float64, nFeatures)
		center := -2.0
		if i >= n/2 {
			center = 2.0
			y[i] = 1
		}
		for j := 0; j < nFeatures; j++ {
			X[i][j] = center + rng.NormFloat64()*0.5
		}
	}
	return X, y
}

func trainAccuracy(m Model, X [][]float64, y []int) float64 {
	probs := m.PredictProba(X)
	correct := 0
	for i, p := range probs {
		pred := 0
		if p >= 0.5 {
			pred = 1
		}
		if pred == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(y))
}

func bankConfigs(seed int64) []ModelConfig {
	return []ModelConfig{
		{Algorithm: "svm", C: []float64{1}, Epochs: 100, Seed: seed},
		{Algorithm: "forest", NTrees: 15, MaxDepth: 5, MinSplit: 2, Seed: seed},
		{Algorithm: "tree", MaxDepth: 5, MinSplit: 2},
		{Algorithm: "bag-ls", NEstimators: 10, Lambda: 0.01, Seed: seed},
		{Algorithm: "mlp", HiddenSizes: []int{4}, LearningRates: []float64{0.1}, Epochs: 150, Seed: seed},
	}
}

func TestBankSeparatesBlobs(t *testing.T) {
	X, y := blobs(60, 4, 1)

	for _, config := range bankConfigs(42) {
		t.Run(config.Algorithm, func(t *testing.T) {
			m, err := Create(config)
			if err != nil {
				t.Fatal(err)
			}
			if err := m.Fit(X, y); err != nil {
				t.Fatalf("Fit failed: %v", err)
			}

			probs := m.PredictProba(X)
			if len(probs) != len(X) {
				t.Fatalf("got %d probabilities for %d rows", len(probs), len(X))
			}
			for i, p := range probs {
				if p < 0 || p > 1 {
					t.Errorf("row %d: probability %f out of [0,1]", i, p)
				}
			}

			if acc := trainAccuracy(m, X, y); acc < 0.9 {
				t.Errorf("training accuracy %f on separated blobs, want at least 0.9", acc)
			}
		})
	}
}

func TestBankDeterminism(t *testing.T) {
	X, y := blobs(60, 4, 2)

	for _, config := range bankConfigs(7) {
		t.Run(config.Algorithm, func(t *testing.T) {
			first, err := Create(config)
			if err != nil {
				t.Fatal(err)
			}
			second, err := Create(config)
			if err != nil {
				t.Fatal(err)
			}

			if err := first.Fit(X, y); err != nil {
				t.Fatal(err)
			}
			if err := second.Fit(X, y); err != nil {
				t.Fatal(err)
			}

			if !reflect.DeepEqual(first.PredictProba(X), second.PredictProba(X)) {
				t.Error("same seed and data produced different predictions")
			}
		})
	}
}

func TestCloneIsUnfitted(t *testing.T) {
	X, y := blobs(40, 3, 3)

	for _, config := range bankConfigs(11) {
		t.Run(config.Algorithm, func(t *testing.T) {
			m, err := Create(config)
			if err != nil {
				t.Fatal(err)
			}
			if err := m.Fit(X, y); err != nil {
				t.Fatal(err)
			}

			clone := m.Clone()
			if clone.Name() != m.Name() {
				t.Errorf("clone renamed itself: %s vs %s", clone.Name(), m.Name())
			}

			// The clone trains independently and must match a sibling with
			// the same hyperparameters.
			if err := clone.Fit(X, y); err != nil {
				t.Fatalf("clone Fit failed: %v", err)
			}
			if !reflect.DeepEqual(clone.PredictProba(X), m.PredictProba(X)) {
				t.Error("clone trained on the same data diverged from the original")
			}
		})
	}
}

func TestFitRejectsBadData(t *testing.T) {
	for _, config := range bankConfigs(5) {
		t.Run(config.Algorithm, func(t *testing.T) {
			m, err := Create(config)
			if err != nil {
				t.Fatal(err)
			}
			if err := m.Fit(nil, nil); err == nil {
				t.Error("expected an error for empty training data")
			}
			if err := m.Fit([][]float64{{1, 2}}, []int{0, 1}); err == nil {
				t.Error("expected an error for mismatched row and label counts")
			}
		})
	}
}

func TestCreateUnknownAlgorithm(t *testing.T) {
	if _, err := Create(ModelConfig{Algorithm: "knn"}); err == nil {
		t.Error("expected an error for an unknown algorithm")
	}
}

func TestBankOrder(t *testing.T) {
	want := []string{"svm", "forest", "tree", "bag-ls", "mlp"}
	if got := Bank(); !reflect.DeepEqual(got, want) {
		t.Errorf("Bank() = %v, want %v", got, want)
	}
}
