package models

import (
	"fmt"
	"math"
	"math/rand"
)

// RandomForest bags deterministic CART trees over bootstrap resamples with
// sqrt-of-features subsampling per tree. Each tree gets its own rng derived
// from the forest seed, so refitting with the same seed reproduces the model.
type RandomForest struct {
	BaseModel
	NTrees          int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int
	Seed            int64
	Trees           []*DecisionTree
	FeatureIndices  [][]int
}

func NewRandomForest(nTrees, maxDepth, minSamplesSplit int, seed int64) *RandomForest {
	if nTrees <= 0 {
		nTrees = 100
	}
	if maxDepth <= 0 {
		maxDepth = 10
	}
	if minSamplesSplit <= 0 {
		minSamplesSplit = 2
	}

	return &RandomForest{
		NTrees:          nTrees,
		MaxDepth:        maxDepth,
		MinSamplesSplit: minSamplesSplit,
		Seed:            seed,
		BaseModel: BaseModel{
			ModelName: "forest",
			ModelParams: map[string]any{
				"n_trees":           nTrees,
				"max_depth":         maxDepth,
				"min_samples_split": minSamplesSplit,
			},
		},
	}
}

func (rf *RandomForest) Fit(X [][]float64, y []int) error {
	if err := checkTrainingData(X, y); err != nil {
		return fmt.Errorf("%w: random forest needs a non-empty training matrix", err)
	}

	nFeatures := len(X[0])
	rf.MaxFeatures = int(math.Sqrt(float64(nFeatures)))
	if rf.MaxFeatures < 1 {
		rf.MaxFeatures = 1
	}

	rf.Trees = make([]*DecisionTree, rf.NTrees)
	rf.FeatureIndices = make([][]int, rf.NTrees)

	for i := 0; i < rf.NTrees; i++ {
		rng := rand.New(rand.NewSource(rf.Seed + int64(i)))

		XBoot, yBoot := bootstrapSample(X, y, rng)
		features := rf.selectRandomFeatures(nFeatures, rng)

		XSelected := make([][]float64, len(XBoot))
		for r := range XBoot {
			XSelected[r] = make([]float64, len(features))
			for c, feat := range features {
				XSelected[r][c] = XBoot[r][feat]
			}
		}

		tree := NewDecisionTree(rf.MaxDepth, rf.MinSamplesSplit)
		if err := tree.Fit(XSelected, yBoot); err != nil {
			return fmt.Errorf("tree %d training failed: %w", i, err)
		}

		rf.Trees[i] = tree
		rf.FeatureIndices[i] = features
	}

	return nil
}

func (rf *RandomForest) selectRandomFeatures(nFeatures int, rng *rand.Rand) []int {
	features := make([]int, nFeatures)
	for i := range features {
		features[i] = i
	}

	for i := 0; i < rf.MaxFeatures && i < nFeatures; i++ {
		j := i + rng.Intn(nFeatures-i)
		features[i], features[j] = features[j], features[i]
	}

	return features[:rf.MaxFeatures]
}

func (rf *RandomForest) PredictProba(X [][]float64) []float64 {
	probs := make([]float64, len(X))

	for i, sample := range X {
		sum := 0.0
		for j, tree := range rf.Trees {
			selected := make([]float64, len(rf.FeatureIndices[j]))
			for k, feat := range rf.FeatureIndices[j] {
				selected[k] = sample[feat]
			}
			sum += tree.predictSample(selected, tree.Root)
		}
		probs[i] = sum / float64(len(rf.Trees))
	}

	return probs
}

func (rf *RandomForest) Clone() Model {
	return NewRandomForest(rf.NTrees, rf.MaxDepth, rf.MinSamplesSplit, rf.Seed)
}
