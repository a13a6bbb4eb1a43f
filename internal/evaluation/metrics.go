package evaluation

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Accuracy is the fraction of samples whose positive-class probability,
// thresholded at 0.5, matches the label ("OA" in the report).
func Accuracy(probs []float64, y []int) float64 {
	if len(probs) == 0 || len(probs) != len(y) {
		return math.NaN()
	}

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

	return float64(correct) / float64(len(probs))
}

// AUC is the Mann-Whitney estimate of the area under the ROC curve: the
// probability that a random positive sample scores above a random negative
// one, with ties counted as half. Threshold-free, so it works on any
// monotone score, not only calibrated probabilities.
func AUC(scores []float64, y []int) float64 {
	if len(scores) == 0 || len(scores) != len(y) {
		return math.NaN()
	}

	var pos, neg []float64
	for i, s := range scores {
		if y[i] == 1 {
			pos = append(pos, s)
		} else {
			neg = append(neg, s)
		}
	}

	if len(pos) == 0 || len(neg) == 0 {
		return math.NaN()
	}

	wins := 0.0
	for _, p := range pos {
		for _, n := range neg {
			switch {
			case p > n:
				wins += 1.0
			case p == n:
				wins += 0.5
			}
		}
	}

	return wins / (float64(len(pos)) * float64(len(neg)))
}

// MeanStd aggregates fold scores into mean and sample standard deviation,
// skipping NaN entries from failed folds. All-NaN input yields NaN mean.
func MeanStd(scores []float64) (mean, std float64) {
	valid := make([]float64, 0, len(scores))
	for _, s := range scores {
		if !math.IsNaN(s) {
			valid = append(valid, s)
		}
	}

	if len(valid) == 0 {
		return math.NaN(), math.NaN()
	}

	mean = stat.Mean(valid, nil)
	if len(valid) < 2 {
		return mean, 0
	}
	return mean, stat.StdDev(valid, nil)
}
