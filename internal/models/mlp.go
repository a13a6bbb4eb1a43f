package models

import (
	"fmt"
	"math"
	"math/rand"

	"szclassifier/internal/preprocessing"
)

// MLP is a one-hidden-layer perceptron with sigmoid activations trained by
// SGD on the cross-entropy loss. The hidden size and learning rate grids are
// searched with 3-fold cross-validation inside the training partition.
// Features are standardized internally on the training rows.
type MLP struct {
	BaseModel
	HiddenSizes   []int
	LearningRates []float64
	Epochs        int
	Seed          int64

	Hidden       int
	LearningRate float64
	W1           [][]float64
	B1           []float64
	W2           []float64
	B2           float64
	scaler       *preprocessing.StandardScaler
}

func NewMLP(hiddenSizes []int, learningRates []float64, epochs int, seed int64) *MLP {
	if len(hiddenSizes) == 0 {
		hiddenSizes = []int{8}
	}
	if len(learningRates) == 0 {
		learningRates = []float64{0.1}
	}
	if epochs <= 0 {
		epochs = 300
	}

	return &MLP{
		HiddenSizes:   hiddenSizes,
		LearningRates: learningRates,
		Epochs:        epochs,
		Seed:          seed,
		BaseModel: BaseModel{
			ModelName: "mlp",
			ModelParams: map[string]any{
				"hidden":         hiddenSizes,
				"learning_rates": learningRates,
				"epochs":         epochs,
			},
		},
	}
}

func (m *MLP) Fit(X [][]float64, y []int) error {
	if err := checkTrainingData(X, y); err != nil {
		return fmt.Errorf("%w: mlp needs a non-empty training matrix", err)
	}

	hidden, lr := m.HiddenSizes[0], m.LearningRates[0]
	if len(m.HiddenSizes)*len(m.LearningRates) > 1 {
		hidden, lr = m.searchGrid(X, y)
	}
	m.Hidden = hidden
	m.LearningRate = lr

	m.scaler = preprocessing.NewStandardScaler()
	XScaled, err := m.scaler.FitTransform(X)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelFit, err)
	}

	m.train(XScaled, y, hidden, lr)
	return nil
}

func (m *MLP) searchGrid(X [][]float64, y []int) (int, float64) {
	rng := rand.New(rand.NewSource(m.Seed))
	trainSets, valSets := innerFolds(len(X), 3, rng)

	bestHidden := m.HiddenSizes[0]
	bestLR := m.LearningRates[0]
	bestScore := -1.0

	for _, hidden := range m.HiddenSizes {
		for _, lr := range m.LearningRates {
			score := 0.0
			for f := range trainSets {
				XTrain, yTrain := subsetRows(X, y, trainSets[f])
				XVal, yVal := subsetRows(X, y, valSets[f])

				candidate := NewMLP([]int{hidden}, []float64{lr}, m.Epochs, m.Seed)
				score += validationAccuracy(candidate, XTrain, yTrain, XVal, yVal)
			}
			score /= float64(len(trainSets))

			if score > bestScore {
				bestScore = score
				bestHidden = hidden
				bestLR = lr
			}
		}
	}

	return bestHidden, bestLR
}

func (m *MLP) train(X [][]float64, y []int, hidden int, lr float64) {
	rng := rand.New(rand.NewSource(m.Seed))
	dim := len(X[0])

	scale := 1.0 / math.Sqrt(float64(dim))
	m.W1 = make([][]float64, hidden)
	m.B1 = make([]float64, hidden)
	for h := 0; h < hidden; h++ {
		m.W1[h] = make([]float64, dim)
		for j := 0; j < dim; j++ {
			m.W1[h][j] = rng.NormFloat64() * scale
		}
	}

	m.W2 = make([]float64, hidden)
	for h := 0; h < hidden; h++ {
		m.W2[h] = rng.NormFloat64() / math.Sqrt(float64(hidden))
	}
	m.B2 = 0

	order := make([]int, len(X))
	for i := range order {
		order[i] = i
	}

	act := make([]float64, hidden)
	for epoch := 0; epoch < m.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		for _, i := range order {
			out := m.forward(X[i], act)

			// Cross-entropy with sigmoid output: delta is just (out - y).
			delta := out - float64(y[i])

			for h := 0; h < hidden; h++ {
				hiddenDelta := delta * m.W2[h] * act[h] * (1 - act[h])

				m.W2[h] -= lr * delta * act[h]
				for j := 0; j < dim; j++ {
					m.W1[h][j] -= lr * hiddenDelta * X[i][j]
				}
				m.B1[h] -= lr * hiddenDelta
			}
			m.B2 -= lr * delta
		}
	}
}

// forward fills act with the hidden activations and returns the output.
func (m *MLP) forward(x []float64, act []float64) float64 {
	for h := range m.W1 {
		z := m.B1[h]
		for j, v := range x {
			z += m.W1[h][j] * v
		}
		act[h] = sigmoid(z)
	}

	out := m.B2
	for h, a := range act {
		out += m.W2[h] * a
	}
	return sigmoid(out)
}

func (m *MLP) PredictProba(X [][]float64) []float64 {
	XScaled, err := m.scaler.Transform(X)
	if err != nil {
		XScaled = X
	}

	act := make([]float64, m.Hidden)
	probs := make([]float64, len(XScaled))
	for i, sample := range XScaled {
		probs[i] = m.forward(sample, act)
	}
	return probs
}

func (m *MLP) Clone() Model {
	return NewMLP(m.HiddenSizes, m.LearningRates, m.Epochs, m.Seed)
}
