package evaluation

import (
	"fmt"
	"math/rand"
	"sort"
)

// Fold is one train/test partition expressed as index sets into the full
// dataset. Folds are computed once per run and shared by every selector and
// classifier combination so all comparisons see identical partitions.
type Fold struct {
	Train []int
	Test  []int
}

// StratifiedKFold builds k folds with each class shuffled independently under
// the given seed and dealt round-robin across folds, keeping the group
// balance of every fold close to the dataset's.
func StratifiedKFold(y []int, k int, seed int64) ([]Fold, error) {
	n := len(y)
	if k < 2 || k > n {
		return nil, fmt.Errorf("invalid number of folds: %d (must be between 2 and %d)", k, n)
	}

	classIndices := make(map[int][]int)
	for i, label := range y {
		classIndices[label] = append(classIndices[label], i)
	}

	classes := make([]int, 0, len(classIndices))
	for class := range classIndices {
		classes = append(classes, class)
	}
	sort.Ints(classes)

	rng := rand.New(rand.NewSource(seed))

	testSets := make([][]int, k)
	for _, class := range classes {
		indices := classIndices[class]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		for i, idx := range indices {
			fold := i % k
			testSets[fold] = append(testSets[fold], idx)
		}
	}

	folds := make([]Fold, k)
	for f := 0; f < k; f++ {
		sort.Ints(testSets[f])
		inTest := make(map[int]bool, len(testSets[f]))
		for _, idx := range testSets[f] {
			inTest[idx] = true
		}

		train := make([]int, 0, n-len(testSets[f]))
		for i := 0; i < n; i++ {
			if !inTest[i] {
				train = append(train, i)
			}
		}

		folds[f] = Fold{Train: train, Test: testSets[f]}
	}

	return folds, nil
}

// Subset picks the given rows of X and y.
func Subset(X [][]float64, y []int, indices []int) ([][]float64, []int) {
	subX := make([][]float64, len(indices))
	subY := make([]int, len(indices))
	for i, idx := range indices {
		subX[i] = X[idx]
		subY[i] = y[idx]
	}
	return subX, subY
}
