package experiment

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"szclassifier/internal/data"
)

// syntheticDataset builds a two-group dataset where the first nInformative
// features shift by delta standard deviations between groups and the rest are
// noise.
func syntheticDataset(perGroup, nInformative, nNoise int, delta float64, seed int64) *data.Dataset {
	rng := rand.New(rand.NewSource(seed))
	nFeatures := nInformative + nNoise

	columns := make([]string, nFeatures)
	for j := range columns {
		columns[j] = "roi_" + string(rune('a'+j%26)) + string(rune('0'+j/26))
	}

	makeRows := func(shift float64) [][]decimal.Decimal {
		rows := make([][]decimal.Decimal, perGroup)
		for i := range rows {
			rows[i] = make([]decimal.Decimal, nFeatures)
			for j := 0; j < nFeatures; j++ {
				v := rng.NormFloat64()
				if j < nInformative {
					v += shift
				}
				rows[i][j] = decimal.NewFromFloat(v)
			}
		}
		return rows
	}

	healthy := &data.Table{Columns: columns, Rows: makeRows(0)}
	patients := &data.Table{Columns: columns, Rows: makeRows(delta)}

	ds, err := data.Merge(healthy, patients)
	if err != nil {
		panic(err)
	}
	return ds
}

func smallConfig(classifiers, selectors []string) *Config {
	config := DefaultConfig()
	exp := &config.Experiment

	exp.Classifiers.Enabled = classifiers
	exp.Selectors.Enabled = selectors
	exp.Classifiers.SVM.C = []float64{1}
	exp.Classifiers.SVM.Epochs = 50
	exp.Classifiers.Forest.NTrees = 15
	exp.Classifiers.Tree.MaxDepth = 5
	exp.Classifiers.BagLS.NEstimators = 10
	exp.Classifiers.MLP.Hidden = []int{4}
	exp.Classifiers.MLP.LearningRates = []float64{0.1}
	exp.Classifiers.MLP.Epochs = 100
	exp.Selectors.Rank.TopK = 5
	exp.Selectors.Stepwise.MaxFeatures = 5

	return config
}

func TestRunInformativeData(t *testing.T) {
	ds := syntheticDataset(20, 10, 10, 1.5, 1)

	config := smallConfig([]string{"tree"}, []string{"rank"})
	summaries, err := NewRunner(config).Quiet().Run(ds)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(summaries) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(summaries))
	}

	s := summaries[0]
	if s.Failures > 0 {
		t.Fatalf("unexpected fold failures: %d", s.Failures)
	}
	if s.AUCMean <= 0.65 {
		t.Errorf("group separation should be detected, AUC mean = %f", s.AUCMean)
	}
	if s.AUCMean > 1.0 || s.OAMean > 1.0 {
		t.Errorf("metrics out of range: OA %f AUC %f", s.OAMean, s.AUCMean)
	}
}

func TestRunNoiseData(t *testing.T) {
	// Pure noise in both groups: held-out AUC has to stay near chance.
	ds := syntheticDataset(100, 0, 5, 0, 2)

	config := smallConfig([]string{"tree"}, []string{"none", "rank"})
	summaries, err := NewRunner(config).Quiet().Run(ds)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, s := range summaries {
		if s.Failures > 0 {
			continue
		}
		if math.Abs(s.AUCMean-0.5) > 0.18 {
			t.Errorf("%s/%s: AUC mean %f on pure noise, want near 0.5",
				s.Classifier, s.Selector, s.AUCMean)
		}
	}
}

func TestRunFullGrid(t *testing.T) {
	if testing.Short() {
		t.Skip("full grid is slow")
	}

	ds := syntheticDataset(20, 5, 5, 1.5, 3)

	config := smallConfig(
		[]string{"svm", "forest", "tree", "bag-ls", "mlp"},
		[]string{"none", "rank", "pca", "stepwise"},
	)
	summaries, err := NewRunner(config).Quiet().Run(ds)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(summaries) != 20 {
		t.Fatalf("expected 20 pairs, got %d", len(summaries))
	}
	for _, s := range summaries {
		if len(s.Folds) != config.Experiment.Folds {
			t.Errorf("%s/%s: %d fold records, want %d",
				s.Classifier, s.Selector, len(s.Folds), config.Experiment.Folds)
		}
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	ds := syntheticDataset(15, 4, 4, 1.5, 4)

	config := smallConfig([]string{"tree", "bag-ls"}, []string{"none", "rank"})
	sequential, err := NewRunner(config).Quiet().Run(ds)
	if err != nil {
		t.Fatalf("sequential run failed: %v", err)
	}

	config.Experiment.Parallel = true
	config.Experiment.Workers = 3
	parallel, err := NewRunner(config).Quiet().Run(ds)
	if err != nil {
		t.Fatalf("parallel run failed: %v", err)
	}

	if !reflect.DeepEqual(sequential, parallel) {
		t.Error("parallel run diverged from the sequential run")
	}
}

func TestRunRejectsSingleClass(t *testing.T) {
	ds := syntheticDataset(10, 2, 2, 1.0, 5)
	ds.Y = make([]int, ds.NumSamples())

	if _, err := NewRunner(DefaultConfig()).Quiet().Run(ds); err == nil {
		t.Error("expected a validation error for a single-class dataset")
	}
}

func TestRunRejectsTooManyFolds(t *testing.T) {
	ds := syntheticDataset(3, 2, 2, 1.0, 6)

	config := smallConfig([]string{"tree"}, []string{"none"})
	config.Experiment.Folds = 50
	if _, err := NewRunner(config).Quiet().Run(ds); err == nil {
		t.Error("expected an error when folds exceed the sample count")
	}
}

func TestRunCSVWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	ds := syntheticDataset(12, 4, 2, 2.0, 7)

	healthyPath := filepath.Join(dir, "healthy.csv")
	patientPath := filepath.Join(dir, "patients.csv")
	writeGroupCSV(t, healthyPath, ds, data.LabelHealthy)
	writeGroupCSV(t, patientPath, ds, data.LabelPatient)

	outPath := filepath.Join(dir, "results.xlsx")
	config := smallConfig([]string{"tree"}, []string{"rank"})
	config.Experiment.Folds = 3

	summaries, err := NewRunner(config).Quiet().RunCSV(healthyPath, patientPath, outPath)
	if err != nil {
		t.Fatalf("RunCSV failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(summaries))
	}

	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("spreadsheet not written: %v", err)
	}
	if _, err := os.Stat(outPath + ".bundle"); err != nil {
		t.Errorf("run bundle not written: %v", err)
	}
}

func writeGroupCSV(t *testing.T, path string, ds *data.Dataset, label int) {
	t.Helper()

	content := ""
	for j, name := range ds.Features {
		if j > 0 {
			content += ","
		}
		content += name
	}
	content += "\n"

	for i := range ds.X {
		if ds.Y[i] != label {
			continue
		}
		for j, v := range ds.X[i] {
			if j > 0 {
				content += ","
			}
			content += v.String()
		}
		content += "\n"
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
