package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// Group labels are fixed by construction: the loader assigns them per input
// table, so no label column or encoder is involved.
const (
	LabelHealthy = 0
	LabelPatient = 1
)

var ErrDataShape = errors.New("data shape mismatch")

// Table is one diagnostic group's raw measurements: a header row plus one
// numeric row per subject.
type Table struct {
	Columns []string
	Rows    [][]decimal.Decimal
}

// Dataset is the merged feature matrix and label vector. It is built once at
// load time and treated as read-only afterwards.
type Dataset struct {
	Features []string
	X        [][]decimal.Decimal
	Y        []int
}

func ReadCSVTable(filename string) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("insufficient data in %s", filename)
	}

	table := &Table{Columns: records[0]}

	for _, record := range records[1:] {
		hasEmpty := false
		for _, val := range record {
			if strings.TrimSpace(val) == "" {
				hasEmpty = true
				break
			}
		}
		if hasEmpty {
			continue
		}

		row := make([]decimal.Decimal, len(record))
		for j, val := range record {
			dec, err := decimal.NewFromString(strings.TrimSpace(val))
			if err != nil {
				return nil, fmt.Errorf("non-numeric value %q in %s: %w", val, filename, err)
			}
			row[j] = dec
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// Merge concatenates the healthy and patient tables into a single dataset.
// Row order is healthy first, then patients; fold assignment downstream does
// its own shuffling, so the order carries no meaning.
func Merge(healthy, patients *Table) (*Dataset, error) {
	if err := checkSchema(healthy, patients); err != nil {
		return nil, err
	}

	ds := &Dataset{
		Features: append([]string{}, healthy.Columns...),
		X:        make([][]decimal.Decimal, 0, len(healthy.Rows)+len(patients.Rows)),
		Y:        make([]int, 0, len(healthy.Rows)+len(patients.Rows)),
	}

	for _, row := range healthy.Rows {
		ds.X = append(ds.X, row)
		ds.Y = append(ds.Y, LabelHealthy)
	}
	for _, row := range patients.Rows {
		ds.X = append(ds.X, row)
		ds.Y = append(ds.Y, LabelPatient)
	}

	return ds, nil
}

func checkSchema(healthy, patients *Table) error {
	if len(healthy.Columns) != len(patients.Columns) {
		return fmt.Errorf("%w: healthy table has %d columns, patient table has %d",
			ErrDataShape, len(healthy.Columns), len(patients.Columns))
	}
	for i := range healthy.Columns {
		if healthy.Columns[i] != patients.Columns[i] {
			return fmt.Errorf("%w: column %d is %q in healthy table but %q in patient table",
				ErrDataShape, i, healthy.Columns[i], patients.Columns[i])
		}
	}
	return nil
}

// LoadCSV reads both group tables from disk and merges them.
func LoadCSV(healthyFile, patientFile string) (*Dataset, error) {
	healthy, err := ReadCSVTable(healthyFile)
	if err != nil {
		return nil, err
	}
	patients, err := ReadCSVTable(patientFile)
	if err != nil {
		return nil, err
	}
	return Merge(healthy, patients)
}

func (ds *Dataset) NumSamples() int {
	return len(ds.X)
}

func (ds *Dataset) NumFeatures() int {
	if len(ds.X) == 0 {
		return 0
	}
	return len(ds.X[0])
}

// Floats converts the decimal feature matrix into the float64 form the
// numeric pipeline works on. The decimal originals stay authoritative for
// the per-feature statistics sheet.
func (ds *Dataset) Floats() [][]float64 {
	X := make([][]float64, len(ds.X))
	for i, row := range ds.X {
		X[i] = make([]float64, len(row))
		for j, val := range row {
			X[i][j] = val.InexactFloat64()
		}
	}
	return X
}

// Labels returns a copy of the label vector.
func (ds *Dataset) Labels() []int {
	y := make([]int, len(ds.Y))
	copy(y, ds.Y)
	return y
}
