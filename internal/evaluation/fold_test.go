package evaluation

import (
	"reflect"
	"testing"
)

func balancedLabels(n int) []int {
	y := make([]int, n)
	for i := n / 2; i < n; i++ {
		y[i] = 1
	}
	return y
}

func TestStratifiedKFoldPartition(t *testing.T) {
	y := balancedLabels(40)

	folds, err := StratifiedKFold(y, 5, 42)
	if err != nil {
		t.Fatalf("StratifiedKFold failed: %v", err)
	}
	if len(folds) != 5 {
		t.Fatalf("expected 5 folds, got %d", len(folds))
	}

	covered := make(map[int]int)
	for f, fold := range folds {
		if len(fold.Train)+len(fold.Test) != len(y) {
			t.Errorf("fold %d: train+test is %d, want %d", f, len(fold.Train)+len(fold.Test), len(y))
		}

		inTrain := make(map[int]bool)
		for _, idx := range fold.Train {
			inTrain[idx] = true
		}
		for _, idx := range fold.Test {
			if inTrain[idx] {
				t.Errorf("fold %d: index %d appears in both partitions", f, idx)
			}
			covered[idx]++
		}

		// Balanced input should stay balanced in every test partition.
		positives := 0
		for _, idx := range fold.Test {
			positives += y[idx]
		}
		if positives*2 != len(fold.Test) {
			t.Errorf("fold %d: test partition has %d positives out of %d", f, positives, len(fold.Test))
		}
	}

	for i := range y {
		if covered[i] != 1 {
			t.Errorf("index %d appears in %d test partitions, want exactly 1", i, covered[i])
		}
	}
}

func TestStratifiedKFoldDeterminism(t *testing.T) {
	y := balancedLabels(40)

	first, err := StratifiedKFold(y, 5, 7)
	if err != nil {
		t.Fatal(err)
	}
	second, err := StratifiedKFold(y, 5, 7)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("identical seeds produced different folds")
	}

	other, err := StratifiedKFold(y, 5, 8)
	if err != nil {
		t.Fatal(err)
	}
	if reflect.DeepEqual(first, other) {
		t.Error("different seeds produced identical folds")
	}
}

func TestStratifiedKFoldInvalid(t *testing.T) {
	y := balancedLabels(10)

	if _, err := StratifiedKFold(y, 1, 0); err == nil {
		t.Error("expected an error for k=1")
	}
	if _, err := StratifiedKFold(y, 11, 0); err == nil {
		t.Error("expected an error for k greater than the sample count")
	}
}
