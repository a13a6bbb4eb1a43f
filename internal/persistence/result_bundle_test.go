package persistence

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"szclassifier/internal/evaluation"
)

func sampleSummaries() []evaluation.PairSummary {
	return []evaluation.PairSummary{
		{
			Selector:   "rank",
			Classifier: "forest",
			Folds: []evaluation.FoldResult{
				{Selector: "rank", Classifier: "forest", Fold: 0, OA: 0.8, AUC: 0.9},
				{Selector: "rank", Classifier: "forest", Fold: 1, OA: math.NaN(), AUC: math.NaN(),
					Err: errors.New("classifier forest on rank fold 1: fit failed")},
			},
			OAMean:   0.8,
			AUCMean:  0.9,
			Failures: 1,
		},
	}
}

func TestRunBundleRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.bundle")

	bundle := NewRunBundle("healthy.csv", "patients.csv", 42, 5, sampleSummaries())
	if err := bundle.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadRunBundle(path)
	if err != nil {
		t.Fatalf("LoadRunBundle failed: %v", err)
	}

	if loaded.HealthyFile != "healthy.csv" || loaded.PatientFile != "patients.csv" {
		t.Errorf("source files not preserved: %s / %s", loaded.HealthyFile, loaded.PatientFile)
	}
	if loaded.Seed != 42 || loaded.NumFolds != 5 {
		t.Errorf("run parameters not preserved: seed %d folds %d", loaded.Seed, loaded.NumFolds)
	}

	if len(loaded.Pairs) != 1 {
		t.Fatalf("expected 1 pair record, got %d", len(loaded.Pairs))
	}
	pair := loaded.Pairs[0]
	if pair.Classifier != "forest" || pair.Selector != "rank" || pair.Failures != 1 {
		t.Errorf("unexpected pair record: %+v", pair)
	}

	if len(loaded.Folds) != 2 {
		t.Fatalf("expected 2 fold records, got %d", len(loaded.Folds))
	}
	if loaded.Folds[0].OA != 0.8 || loaded.Folds[0].Error != "" {
		t.Errorf("unexpected first fold record: %+v", loaded.Folds[0])
	}
	if !math.IsNaN(loaded.Folds[1].OA) || loaded.Folds[1].Error == "" {
		t.Errorf("failed fold should keep NaN metrics and the error text: %+v", loaded.Folds[1])
	}
}

func TestSaveMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.txt")

	bundle := NewRunBundle("h.csv", "p.csv", 7, 5, sampleSummaries())
	if err := bundle.SaveMetadata(path); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	text := string(raw)
	for _, want := range []string{"Seed: 7", "Folds: 5", "forest / rank"} {
		if !strings.Contains(text, want) {
			t.Errorf("metadata missing %q:\n%s", want, text)
		}
	}
}

func TestLoadRunBundleMissing(t *testing.T) {
	if _, err := LoadRunBundle(filepath.Join(t.TempDir(), "nope.bundle")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
