package persistence

import (
	"encoding/gob"
	"fmt"
	"os"
	"time"

	"szclassifier/internal/evaluation"
)

// RunBundle archives one finished experiment run: where the data came from,
// how the folds were configured, and every aggregated and per-fold result.
// It is written next to the spreadsheet so a run can be re-inspected without
// re-training anything.
type RunBundle struct {
	CreatedAt   time.Time
	HealthyFile string
	PatientFile string
	Seed        int64
	NumFolds    int
	Pairs       []PairRecord
	Folds       []FoldRecord
}

type PairRecord struct {
	Selector   string
	Classifier string
	OAMean     float64
	OAStd      float64
	AUCMean    float64
	AUCStd     float64
	Failures   int
}

// FoldRecord flattens a fold result for encoding; errors are kept as strings
// because gob cannot carry arbitrary error values.
type FoldRecord struct {
	Selector   string
	Classifier string
	Fold       int
	OA         float64
	AUC        float64
	Error      string
}

func NewRunBundle(healthyFile, patientFile string, seed int64, numFolds int, summaries []evaluation.PairSummary) *RunBundle {
	bundle := &RunBundle{
		CreatedAt:   time.Now(),
		HealthyFile: healthyFile,
		PatientFile: patientFile,
		Seed:        seed,
		NumFolds:    numFolds,
	}

	for _, summary := range summaries {
		bundle.Pairs = append(bundle.Pairs, PairRecord{
			Selector:   summary.Selector,
			Classifier: summary.Classifier,
			OAMean:     summary.OAMean,
			OAStd:      summary.OAStd,
			AUCMean:    summary.AUCMean,
			AUCStd:     summary.AUCStd,
			Failures:   summary.Failures,
		})

		for _, fold := range summary.Folds {
			record := FoldRecord{
				Selector:   fold.Selector,
				Classifier: fold.Classifier,
				Fold:       fold.Fold,
				OA:         fold.OA,
				AUC:        fold.AUC,
			}
			if fold.Err != nil {
				record.Error = fold.Err.Error()
			}
			bundle.Folds = append(bundle.Folds, record)
		}
	}

	return bundle
}

func (rb *RunBundle) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(rb); err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}

	return nil
}

func LoadRunBundle(filename string) (*RunBundle, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var bundle RunBundle
	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("failed to decode bundle: %w", err)
	}

	return &bundle, nil
}

func (rb *RunBundle) SaveMetadata(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintf(file, "Created: %s\n", rb.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(file, "Healthy table: %s\n", rb.HealthyFile)
	fmt.Fprintf(file, "Patient table: %s\n", rb.PatientFile)
	fmt.Fprintf(file, "Seed: %d\n", rb.Seed)
	fmt.Fprintf(file, "Folds: %d\n", rb.NumFolds)
	for _, pair := range rb.Pairs {
		fmt.Fprintf(file, "%s / %s: OA %.4f±%.4f AUC %.4f±%.4f (failures: %d)\n",
			pair.Classifier, pair.Selector, pair.OAMean, pair.OAStd, pair.AUCMean, pair.AUCStd, pair.Failures)
	}

	return nil
}
