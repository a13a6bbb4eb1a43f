package selection

import (
	"reflect"
	"testing"
)

func TestForwardSelectorFindsPredictiveFeature(t *testing.T) {
	X, y := groupedData(80, 6, 4, 4.0, 20)

	fs := NewForwardSelector(0)
	if err := fs.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if len(fs.Selected) == 0 {
		t.Fatal("no feature selected")
	}
	if fs.Selected[0] != 4 {
		t.Errorf("first pick should be the predictive feature 4, got %d", fs.Selected[0])
	}

	reduced := fs.Transform(X)
	if len(reduced[0]) != len(fs.Selected) {
		t.Errorf("Transform width %d, want %d", len(reduced[0]), len(fs.Selected))
	}
}

func TestForwardSelectorMaxFeatures(t *testing.T) {
	X, y := groupedData(80, 6, 0, 2.0, 21)

	fs := NewForwardSelector(2)
	if err := fs.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if len(fs.Selected) > 2 {
		t.Errorf("selected %d features, limit is 2", len(fs.Selected))
	}
}

func TestForwardSelectorSmallSample(t *testing.T) {
	// With 5 rows the design matrix must stay overdetermined, so at most
	// three features can enter.
	X, y := groupedData(5, 10, 0, 3.0, 22)

	fs := NewForwardSelector(0)
	if err := fs.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if len(fs.Selected) > 3 {
		t.Errorf("selected %d features from 5 rows", len(fs.Selected))
	}
}

func TestForwardSelectorDeterminism(t *testing.T) {
	X, y := groupedData(60, 8, 1, 1.5, 23)

	first := NewForwardSelector(4)
	if err := first.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	second := NewForwardSelector(4)
	if err := second.Fit(X, y); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first.Selected, second.Selected) {
		t.Errorf("same input produced different selections: %v vs %v", first.Selected, second.Selected)
	}
}

func TestForwardSelectorEmptyInput(t *testing.T) {
	fs := NewForwardSelector(0)
	if err := fs.Fit(nil, nil); err == nil {
		t.Error("expected an error for an empty training matrix")
	}
}
