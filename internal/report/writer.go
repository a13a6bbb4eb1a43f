package report

import (
	"fmt"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"szclassifier/internal/data"
	"szclassifier/internal/evaluation"
)

const (
	ResultsSheet  = "Results"
	FeaturesSheet = "Features"
	FoldsSheet    = "Folds"
)

// Write serializes one run to a spreadsheet: the aggregated OA/AUC grid
// (rows = classifiers, columns = selectors), the per-feature univariate
// statistics, and the raw per-fold records for auditability. The caller
// decides what to do with a write failure; the runner warns and keeps going
// so an unwritable path never voids the comparison itself.
func Write(filename string, summaries []evaluation.PairSummary, stats []data.FeatureStat) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return err
	}

	if err := writeResults(f, summaries); err != nil {
		return err
	}
	if err := writeFeatures(f, stats); err != nil {
		return err
	}
	if err := writeFolds(f, summaries); err != nil {
		return err
	}

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to write spreadsheet %s: %w", filename, err)
	}

	return nil
}

func writeResults(f *excelize.File, summaries []evaluation.PairSummary) error {
	classifiers, selectors := gridAxes(summaries)

	byPair := make(map[string]evaluation.PairSummary, len(summaries))
	for _, s := range summaries {
		byPair[s.Classifier+"/"+s.Selector] = s
	}

	if err := setCell(f, ResultsSheet, 1, 1, "Classifier"); err != nil {
		return err
	}
	for c, selector := range selectors {
		if err := setCell(f, ResultsSheet, c+2, 1, selector); err != nil {
			return err
		}
	}

	for r, classifier := range classifiers {
		if err := setCell(f, ResultsSheet, 1, r+2, classifier); err != nil {
			return err
		}
		for c, selector := range selectors {
			summary, ok := byPair[classifier+"/"+selector]
			cell := "n/a"
			if ok {
				cell = formatSummary(summary)
			}
			if err := setCell(f, ResultsSheet, c+2, r+2, cell); err != nil {
				return err
			}
		}
	}

	return nil
}

// formatSummary renders a grid cell as "OA mean±std / AUC mean±std".
func formatSummary(s evaluation.PairSummary) string {
	if math.IsNaN(s.OAMean) || math.IsNaN(s.AUCMean) {
		return "failed"
	}
	return fmt.Sprintf("%.4f±%.4f / %.4f±%.4f", s.OAMean, s.OAStd, s.AUCMean, s.AUCStd)
}

func writeFeatures(f *excelize.File, stats []data.FeatureStat) error {
	if _, err := f.NewSheet(FeaturesSheet); err != nil {
		return err
	}

	headers := []string{"Feature", "Min", "Max", "Mean", "Std", "CohenD", "AUC"}
	for c, h := range headers {
		if err := setCell(f, FeaturesSheet, c+1, 1, h); err != nil {
			return err
		}
	}

	for r, stat := range stats {
		row := r + 2
		if err := setCell(f, FeaturesSheet, 1, row, stat.Name); err != nil {
			return err
		}
		// Decimal values go out as exact strings; the separation statistics
		// are float64 like everywhere else in the pipeline.
		if err := setCell(f, FeaturesSheet, 2, row, stat.Min.String()); err != nil {
			return err
		}
		if err := setCell(f, FeaturesSheet, 3, row, stat.Max.String()); err != nil {
			return err
		}
		if err := setCell(f, FeaturesSheet, 4, row, stat.Mean.String()); err != nil {
			return err
		}
		if err := setFloat(f, FeaturesSheet, 5, row, stat.Std); err != nil {
			return err
		}
		if err := setFloat(f, FeaturesSheet, 6, row, stat.CohenD); err != nil {
			return err
		}
		if err := setFloat(f, FeaturesSheet, 7, row, stat.AUC); err != nil {
			return err
		}
	}

	return nil
}

func writeFolds(f *excelize.File, summaries []evaluation.PairSummary) error {
	if _, err := f.NewSheet(FoldsSheet); err != nil {
		return err
	}

	headers := []string{"Selector", "Classifier", "Fold", "OA", "AUC", "Error"}
	for c, h := range headers {
		if err := setCell(f, FoldsSheet, c+1, 1, h); err != nil {
			return err
		}
	}

	row := 2
	for _, summary := range summaries {
		for _, fold := range summary.Folds {
			if err := setCell(f, FoldsSheet, 1, row, fold.Selector); err != nil {
				return err
			}
			if err := setCell(f, FoldsSheet, 2, row, fold.Classifier); err != nil {
				return err
			}
			if err := setCell(f, FoldsSheet, 3, row, fold.Fold); err != nil {
				return err
			}
			if err := setFloat(f, FoldsSheet, 4, row, fold.OA); err != nil {
				return err
			}
			if err := setFloat(f, FoldsSheet, 5, row, fold.AUC); err != nil {
				return err
			}
			if fold.Err != nil {
				if err := setCell(f, FoldsSheet, 6, row, fold.Err.Error()); err != nil {
					return err
				}
			}
			row++
		}
	}

	return nil
}

// FoldRow is a per-fold record read back from a written spreadsheet.
type FoldRow struct {
	Selector   string
	Classifier string
	Fold       int
	OA         float64
	AUC        float64
	Failed     bool
}

// ReadFolds loads the per-fold records back from a spreadsheet written by
// Write. Failed folds come back with NaN metrics.
func ReadFolds(filename string) ([]FoldRow, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", filename, err)
	}
	defer f.Close()

	rows, err := f.GetRows(FoldsSheet)
	if err != nil {
		return nil, err
	}

	var records []FoldRow
	for i, row := range rows {
		if i == 0 || len(row) < 3 {
			continue
		}

		fold, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("bad fold index in row %d: %w", i+1, err)
		}

		record := FoldRow{
			Selector:   row[0],
			Classifier: row[1],
			Fold:       fold,
			OA:         math.NaN(),
			AUC:        math.NaN(),
		}

		if len(row) > 3 && row[3] != "" {
			if record.OA, err = strconv.ParseFloat(row[3], 64); err != nil {
				return nil, fmt.Errorf("bad OA in row %d: %w", i+1, err)
			}
		}
		if len(row) > 4 && row[4] != "" {
			if record.AUC, err = strconv.ParseFloat(row[4], 64); err != nil {
				return nil, fmt.Errorf("bad AUC in row %d: %w", i+1, err)
			}
		}
		record.Failed = math.IsNaN(record.OA) && math.IsNaN(record.AUC)

		records = append(records, record)
	}

	return records, nil
}

// gridAxes derives classifier and selector orders from first appearance.
func gridAxes(summaries []evaluation.PairSummary) (classifiers, selectors []string) {
	seenC := make(map[string]bool)
	seenS := make(map[string]bool)
	for _, s := range summaries {
		if !seenC[s.Classifier] {
			seenC[s.Classifier] = true
			classifiers = append(classifiers, s.Classifier)
		}
		if !seenS[s.Selector] {
			seenS[s.Selector] = true
			selectors = append(selectors, s.Selector)
		}
	}
	return classifiers, selectors
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

// setFloat skips NaN, which xlsx cannot represent; the cell stays empty and
// ReadFolds maps it back to NaN.
func setFloat(f *excelize.File, sheet string, col, row int, value float64) error {
	if math.IsNaN(value) {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellFloat(sheet, cell, value, -1, 64)
}
