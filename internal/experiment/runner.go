package experiment

import (
	"fmt"

	"github.com/fatih/color"

	"szclassifier/internal/data"
	"szclassifier/internal/evaluation"
	"szclassifier/internal/jobs"
	"szclassifier/internal/models"
	"szclassifier/internal/persistence"
	"szclassifier/internal/report"
	"szclassifier/internal/selection"
)

// Runner drives one full comparison: a shared fold assignment, the selector
// × classifier grid, aggregation, and the output artifacts. A shape problem
// at load time aborts; a failing combination only loses its own cell.
type Runner struct {
	Config *Config

	warn func(format string, a ...any)
	info func(format string, a ...any)
}

func NewRunner(config *Config) *Runner {
	if config == nil {
		config = DefaultConfig()
	}

	yellow := color.New(color.FgYellow).SprintfFunc()
	cyan := color.New(color.FgCyan).SprintfFunc()

	return &Runner{
		Config: config,
		warn:   func(format string, a ...any) { fmt.Println(yellow(format, a...)) },
		info:   func(format string, a ...any) { fmt.Println(cyan(format, a...)) },
	}
}

// Quiet suppresses progress output; used by tests.
func (r *Runner) Quiet() *Runner {
	r.warn = func(string, ...any) {}
	r.info = func(string, ...any) {}
	return r
}

// Run evaluates the whole grid on an already-loaded dataset.
func (r *Runner) Run(ds *data.Dataset) ([]evaluation.PairSummary, error) {
	if err := data.NewValidator().Validate(ds); err != nil {
		return nil, err
	}

	exp := &r.Config.Experiment
	X := ds.Floats()
	y := ds.Labels()

	folds, err := evaluation.StratifiedKFold(y, exp.Folds, exp.Seed)
	if err != nil {
		return nil, err
	}
	harness := evaluation.NewHarness(folds)

	type pair struct {
		classifier string
		selector   string
	}

	var grid []pair
	for _, classifier := range exp.Classifiers.Enabled {
		for _, selectorName := range exp.Selectors.Enabled {
			grid = append(grid, pair{classifier: classifier, selector: selectorName})
		}
	}

	r.info("Evaluating %d classifier/selector pairs over %d folds (seed %d)",
		len(grid), exp.Folds, exp.Seed)

	summaries := make([]evaluation.PairSummary, len(grid))

	evaluateOne := func(i int) error {
		p := grid[i]

		sel, err := selection.FromConfig(p.selector, r.Config.selectorConfig())
		if err != nil {
			return err
		}
		model, err := models.Create(r.Config.modelConfig(p.classifier))
		if err != nil {
			return err
		}

		summaries[i] = harness.EvaluatePair(X, y, sel, model)
		return nil
	}

	if exp.Parallel {
		tasks := make([]*jobs.Task, len(grid))
		for i := range grid {
			i := i
			tasks[i] = &jobs.Task{
				ID:          fmt.Sprintf("%s/%s", grid[i].classifier, grid[i].selector),
				Description: "pair evaluation",
				Run:         func() error { return evaluateOne(i) },
			}
		}
		jobs.NewManager(exp.Workers).RunAll(tasks)
		for _, task := range tasks {
			if err := task.GetError(); err != nil {
				return nil, err
			}
		}
	} else {
		for i := range grid {
			if err := evaluateOne(i); err != nil {
				return nil, err
			}
			s := summaries[i]
			if s.Failures > 0 {
				r.warn("%s/%s: %d of %d folds failed", s.Classifier, s.Selector, s.Failures, exp.Folds)
			} else {
				r.info("%s/%s: OA %.4f±%.4f AUC %.4f±%.4f",
					s.Classifier, s.Selector, s.OAMean, s.OAStd, s.AUCMean, s.AUCStd)
			}
		}
	}

	return summaries, nil
}

// RunCSV loads the two group tables, runs the grid, and writes the outputs.
func (r *Runner) RunCSV(healthyFile, patientFile, outFile string) ([]evaluation.PairSummary, error) {
	ds, err := data.LoadCSV(healthyFile, patientFile)
	if err != nil {
		return nil, err
	}

	summaries, err := r.Run(ds)
	if err != nil {
		return nil, err
	}

	r.WriteOutputs(outFile, healthyFile, patientFile, ds, summaries)
	return summaries, nil
}

// WriteOutputs writes the spreadsheet and the gob run bundle. Output
// failures are reported and skipped so a bad path never voids the run.
func (r *Runner) WriteOutputs(outFile, healthyFile, patientFile string, ds *data.Dataset, summaries []evaluation.PairSummary) {
	if outFile == "" {
		return
	}

	if err := report.Write(outFile, summaries, ds.Stats()); err != nil {
		r.warn("Skipping spreadsheet: %v", err)
	} else {
		r.info("Results written to %s", outFile)
	}

	exp := &r.Config.Experiment
	bundle := persistence.NewRunBundle(healthyFile, patientFile, exp.Seed, exp.Folds, summaries)
	if err := bundle.Save(outFile + ".bundle"); err != nil {
		r.warn("Skipping run bundle: %v", err)
	}
}
