package evaluation

import (
	"fmt"
	"math"

	"szclassifier/internal/models"
	"szclassifier/internal/selection"
)

// FoldResult is one (selector, classifier, fold) outcome. A failed fold keeps
// NaN metrics and carries the error that caused it.
type FoldResult struct {
	Selector   string
	Classifier string
	Fold       int
	OA         float64
	AUC        float64
	Err        error
}

// PairSummary aggregates the fold results of one selector/classifier pair.
type PairSummary struct {
	Selector   string
	Classifier string
	Folds      []FoldResult
	OAMean     float64
	OAStd      float64
	AUCMean    float64
	AUCStd     float64
	Failures   int
}

// Harness evaluates selector/classifier pairs over a fixed set of folds. The
// folds are computed once by the caller, so every pair sees identical
// partitions and the comparison stays fair.
type Harness struct {
	Folds []Fold
}

func NewHarness(folds []Fold) *Harness {
	return &Harness{Folds: folds}
}

// EvaluatePair runs the full fold loop for one pair: fit the selector on the
// training rows only, reduce both partitions, fit a fresh clone of the
// classifier, and score the held-out rows. A failure in one fold is recorded
// and the remaining folds still run.
func (h *Harness) EvaluatePair(X [][]float64, y []int, sel selection.Selector, model models.Model) PairSummary {
	summary := PairSummary{
		Selector:   sel.Name(),
		Classifier: model.Name(),
		Folds:      make([]FoldResult, 0, len(h.Folds)),
	}

	for f, fold := range h.Folds {
		result := h.evaluateFold(X, y, sel, model, f, fold)
		if result.Err != nil {
			summary.Failures++
		}
		summary.Folds = append(summary.Folds, result)
	}

	oa := make([]float64, len(summary.Folds))
	auc := make([]float64, len(summary.Folds))
	for i, r := range summary.Folds {
		oa[i] = r.OA
		auc[i] = r.AUC
	}

	summary.OAMean, summary.OAStd = MeanStd(oa)
	summary.AUCMean, summary.AUCStd = MeanStd(auc)

	return summary
}

func (h *Harness) evaluateFold(X [][]float64, y []int, sel selection.Selector, model models.Model, f int, fold Fold) FoldResult {
	result := FoldResult{
		Selector:   sel.Name(),
		Classifier: model.Name(),
		Fold:       f,
		OA:         math.NaN(),
		AUC:        math.NaN(),
	}

	XTrain, yTrain := Subset(X, y, fold.Train)
	XTest, yTest := Subset(X, y, fold.Test)

	if err := sel.Fit(XTrain, yTrain); err != nil {
		result.Err = fmt.Errorf("selector %s fold %d: %w", sel.Name(), f, err)
		return result
	}

	XTrainReduced := sel.Transform(XTrain)
	XTestReduced := sel.Transform(XTest)

	foldModel := model.Clone()
	if err := foldModel.Fit(XTrainReduced, yTrain); err != nil {
		result.Err = fmt.Errorf("classifier %s on %s fold %d: %w", model.Name(), sel.Name(), f, err)
		return result
	}

	probs := foldModel.PredictProba(XTestReduced)
	result.OA = Accuracy(probs, yTest)
	result.AUC = AUC(probs, yTest)

	return result
}
