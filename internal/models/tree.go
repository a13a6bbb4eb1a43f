package models

import (
	"fmt"
	"sort"
)

type TreeNode struct {
	IsLeaf    bool
	Prob      float64
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
	Samples   int
	Impurity  float64
}

// DecisionTree is a CART binary classifier. Leaves store the positive-class
// fraction of their training rows, so PredictProba gives graded scores the
// AUC computation can rank. Split search iterates features in order and
// sorted thresholds with strict improvement, so fitting is deterministic.
type DecisionTree struct {
	BaseModel
	Root                *TreeNode
	MaxDepth            int
	MinSamplesSplit     int
	MinImpurityDecrease float64
}

func NewDecisionTree(maxDepth, minSamplesSplit int) *DecisionTree {
	if maxDepth <= 0 {
		maxDepth = 10
	}

	if minSamplesSplit <= 0 {
		minSamplesSplit = 2
	}

	return &DecisionTree{
		MaxDepth:            maxDepth,
		MinSamplesSplit:     minSamplesSplit,
		MinImpurityDecrease: 1e-7,
		BaseModel: BaseModel{
			ModelName: "tree",
			ModelParams: map[string]any{
				"max_depth":         maxDepth,
				"min_samples_split": minSamplesSplit,
			},
		},
	}
}

func (dt *DecisionTree) Fit(X [][]float64, y []int) error {
	if err := checkTrainingData(X, y); err != nil {
		return fmt.Errorf("%w: decision tree needs a non-empty training matrix", err)
	}

	dt.Root = dt.buildTree(X, y, 0)
	return nil
}

func (dt *DecisionTree) buildTree(X [][]float64, y []int, depth int) *TreeNode {
	node := &TreeNode{
		Samples:  len(y),
		Impurity: gini(y),
	}

	if depth >= dt.MaxDepth || len(y) < dt.MinSamplesSplit || isPure(y) {
		node.IsLeaf = true
		node.Prob = positiveFraction(y)
		return node
	}

	bestFeature, bestThreshold, bestDecrease := dt.findBestSplit(X, y)
	if bestDecrease < dt.MinImpurityDecrease {
		node.IsLeaf = true
		node.Prob = positiveFraction(y)
		return node
	}

	leftIndices, rightIndices := splitIndices(X, bestFeature, bestThreshold)
	if len(leftIndices) == 0 || len(rightIndices) == 0 {
		node.IsLeaf = true
		node.Prob = positiveFraction(y)
		return node
	}

	node.Feature = bestFeature
	node.Threshold = bestThreshold

	XLeft, yLeft := selectRows(X, y, leftIndices)
	XRight, yRight := selectRows(X, y, rightIndices)

	node.Left = dt.buildTree(XLeft, yLeft, depth+1)
	node.Right = dt.buildTree(XRight, yRight, depth+1)

	return node
}

func (dt *DecisionTree) findBestSplit(X [][]float64, y []int) (int, float64, float64) {
	bestFeature := 0
	bestThreshold := 0.0
	bestDecrease := 0.0

	parentImpurity := gini(y)
	n := float64(len(y))

	for feature := range X[0] {
		for _, threshold := range candidateThresholds(X, feature) {
			leftIndices, rightIndices := splitIndices(X, feature, threshold)
			if len(leftIndices) == 0 || len(rightIndices) == 0 {
				continue
			}

			yLeft := make([]int, len(leftIndices))
			for i, idx := range leftIndices {
				yLeft[i] = y[idx]
			}
			yRight := make([]int, len(rightIndices))
			for i, idx := range rightIndices {
				yRight[i] = y[idx]
			}

			weighted := (float64(len(yLeft))/n)*gini(yLeft) + (float64(len(yRight))/n)*gini(yRight)
			decrease := parentImpurity - weighted

			if decrease > bestDecrease {
				bestDecrease = decrease
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	return bestFeature, bestThreshold, bestDecrease
}

func (dt *DecisionTree) PredictProba(X [][]float64) []float64 {
	probs := make([]float64, len(X))
	for i, sample := range X {
		probs[i] = dt.predictSample(sample, dt.Root)
	}
	return probs
}

func (dt *DecisionTree) predictSample(sample []float64, node *TreeNode) float64 {
	if node.IsLeaf {
		return node.Prob
	}

	if sample[node.Feature] < node.Threshold {
		return dt.predictSample(sample, node.Left)
	}
	return dt.predictSample(sample, node.Right)
}

func (dt *DecisionTree) Clone() Model {
	return NewDecisionTree(dt.MaxDepth, dt.MinSamplesSplit)
}

func gini(y []int) float64 {
	if len(y) == 0 {
		return 0.0
	}

	p := positiveFraction(y)
	return 1.0 - p*p - (1-p)*(1-p)
}

func isPure(y []int) bool {
	for _, label := range y[1:] {
		if label != y[0] {
			return false
		}
	}
	return true
}

func positiveFraction(y []int) float64 {
	if len(y) == 0 {
		return 0.0
	}

	positives := 0
	for _, label := range y {
		if label == 1 {
			positives++
		}
	}

	return float64(positives) / float64(len(y))
}

func candidateThresholds(X [][]float64, feature int) []float64 {
	seen := make(map[float64]bool, len(X))
	values := make([]float64, 0, len(X))
	for _, sample := range X {
		if !seen[sample[feature]] {
			seen[sample[feature]] = true
			values = append(values, sample[feature])
		}
	}
	sort.Float64s(values)
	return values
}

func splitIndices(X [][]float64, feature int, threshold float64) ([]int, []int) {
	var leftIndices, rightIndices []int
	for i, sample := range X {
		if sample[feature] < threshold {
			leftIndices = append(leftIndices, i)
		} else {
			rightIndices = append(rightIndices, i)
		}
	}
	return leftIndices, rightIndices
}

func selectRows(X [][]float64, y []int, indices []int) ([][]float64, []int) {
	selectedX := make([][]float64, len(indices))
	selectedY := make([]int, len(indices))
	for i, idx := range indices {
		selectedX[i] = X[idx]
		selectedY[i] = y[idx]
	}
	return selectedX, selectedY
}
