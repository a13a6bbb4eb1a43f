package data

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"szclassifier/internal/evaluation"
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Validate(ds *Dataset) error {
	if ds.NumSamples() == 0 {
		return fmt.Errorf("%w: dataset is empty", ErrDataShape)
	}

	if len(ds.X) != len(ds.Y) {
		return fmt.Errorf("%w: feature matrix and labels have different lengths: %d vs %d",
			ErrDataShape, len(ds.X), len(ds.Y))
	}

	nFeatures := ds.NumFeatures()
	if nFeatures == 0 {
		return fmt.Errorf("%w: features cannot be empty", ErrDataShape)
	}

	for i, sample := range ds.X {
		if len(sample) != nFeatures {
			return fmt.Errorf("%w: inconsistent feature count at sample %d: expected %d, got %d",
				ErrDataShape, i, nFeatures, len(sample))
		}
	}

	classCount := make(map[int]int)
	for _, label := range ds.Y {
		classCount[label]++
	}
	if len(classCount) < 2 {
		return fmt.Errorf("%w: dataset must contain both groups, found %d", ErrDataShape, len(classCount))
	}

	return nil
}

// FeatureStat summarizes one measurement column across the merged dataset.
// Min/Max/Mean keep the exact decimal values from the source tables; the
// separation statistics are float64 like the rest of the numeric pipeline.
type FeatureStat struct {
	Name   string
	Min    decimal.Decimal
	Max    decimal.Decimal
	Mean   decimal.Decimal
	Std    float64
	CohenD float64
	AUC    float64
}

// Stats computes the per-feature univariate statistics reported on the
// spreadsheet's feature sheet.
func (ds *Dataset) Stats() []FeatureStat {
	nFeatures := ds.NumFeatures()
	stats := make([]FeatureStat, nFeatures)

	for j := 0; j < nFeatures; j++ {
		values := make([]decimal.Decimal, len(ds.X))
		scores := make([]float64, len(ds.X))
		for i := range ds.X {
			values[i] = ds.X[i][j]
			scores[i] = ds.X[i][j].InexactFloat64()
		}

		var patients, healthy []float64
		for i, s := range scores {
			if ds.Y[i] == LabelPatient {
				patients = append(patients, s)
			} else {
				healthy = append(healthy, s)
			}
		}

		stats[j] = FeatureStat{
			Name:   ds.Features[j],
			Min:    findMin(values),
			Max:    findMax(values),
			Mean:   calculateMean(values),
			Std:    stat.StdDev(scores, nil),
			CohenD: CohenD(patients, healthy),
			AUC:    evaluation.AUC(scores, ds.Y),
		}
	}

	return stats
}

// CohenD is the standardized group mean difference with the pooled standard
// deviation in the denominator. Degenerate groups yield 0 rather than NaN.
func CohenD(a, b []float64) float64 {
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

func findMin(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	min := values[0]
	for _, v := range values[1:] {
		if v.LessThan(min) {
			min = v
		}
	}
	return min
}

func findMax(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	max := values[0]
	for _, v := range values[1:] {
		if v.GreaterThan(max) {
			max = v
		}
	}
	return max
}

func calculateMean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(values))))
}
