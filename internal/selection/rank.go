package selection

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// RankSelector scores every feature with a univariate separation statistic on
// the training data and keeps the top-k. Supported statistics: "d" (absolute
// Cohen's d, the default) and "auc" (distance of the per-feature AUC from
// 0.5). Ties are broken by original feature order.
type RankSelector struct {
	TopK     int
	Stat     string
	Selected []int
}

func NewRankSelector(topK int, statName string) *RankSelector {
	if topK <= 0 {
		topK = 10
	}
	if statName == "" {
		statName = "d"
	}

	return &RankSelector{
		TopK: topK,
		Stat: statName,
	}
}

func (rs *RankSelector) Name() string {
	return "rank"
}

func (rs *RankSelector) Fit(X [][]float64, y []int) error {
	if len(X) == 0 || len(X[0]) == 0 {
		return fmt.Errorf("%w: empty training matrix", ErrSelectorFit)
	}

	nFeatures := len(X[0])
	scores := make([]float64, nFeatures)
	usable := 0

	for j := 0; j < nFeatures; j++ {
		score, err := rs.featureScore(X, y, j)
		if err != nil {
			return err
		}
		scores[j] = score
		if score > 0 {
			usable++
		}
	}

	if usable == 0 {
		return fmt.Errorf("%w: every feature is degenerate under the %q statistic", ErrSelectorFit, rs.Stat)
	}

	order := make([]int, nFeatures)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	k := rs.TopK
	if k > nFeatures {
		k = nFeatures
	}
	rs.Selected = append([]int{}, order[:k]...)

	return nil
}

func (rs *RankSelector) featureScore(X [][]float64, y []int, feature int) (float64, error) {
	var pos, neg []float64
	for i := range X {
		if y[i] == 1 {
			pos = append(pos, X[i][feature])
		} else {
			neg = append(neg, X[i][feature])
		}
	}

	switch rs.Stat {
	case "d":
		return math.Abs(cohenD(pos, neg)), nil
	case "auc":
		return math.Abs(featureAUC(pos, neg) - 0.5), nil
	default:
		return 0, fmt.Errorf("%w: unknown ranking statistic %q", ErrSelectorFit, rs.Stat)
	}
}

func (rs *RankSelector) Transform(X [][]float64) [][]float64 {
	return subsetColumns(X, rs.Selected)
}

func cohenD(a, b []float64) float64 {
	if len(a) < 2 || len(b) < 2 {
		return 0
	}

	meanA, varA := stat.MeanVariance(a, nil)
	meanB, varB := stat.MeanVariance(b, nil)

	na, nb := float64(len(a)), float64(len(b))
	pooled := math.Sqrt(((na-1)*varA + (nb-1)*varB) / (na + nb - 2))
	if pooled == 0 {
		return 0
	}

	return (meanA - meanB) / pooled
}

// featureAUC is the Mann-Whitney statistic of the raw feature values, with
// ties counted as half.
func featureAUC(pos, neg []float64) float64 {
	if len(pos) == 0 || len(neg) == 0 {
		return 0.5
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
