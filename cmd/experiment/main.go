package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/fatih/color"

	"szclassifier/internal/experiment"
)

func main() {
	healthyFile := flag.String("healthy", "", "Path to the healthy-control measurements CSV")
	patientFile := flag.String("patients", "", "Path to the schizophrenia-patient measurements CSV")
	configFile := flag.String("config", "config/config.yaml", "Path to the experiment configuration file")
	outFile := flag.String("out", "results.xlsx", "Output spreadsheet path")
	seed := flag.Int64("seed", 0, "Random seed (overrides config when non-zero)")
	folds := flag.Int("folds", 0, "Number of cross-validation folds (overrides config when non-zero)")
	parallel := flag.Bool("parallel", false, "Evaluate classifier/selector pairs on a worker pool")

	flag.Parse()

	if *healthyFile == "" || *patientFile == "" {
		fmt.Println("Usage:")
		fmt.Println("  go run cmd/experiment/main.go -healthy data/healthy.csv -patients data/patients.csv -out results.xlsx")
		fmt.Println("\nOptions:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	config, err := experiment.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *seed != 0 {
		config.Experiment.Seed = *seed
	}
	if *folds != 0 {
		config.Experiment.Folds = *folds
	}
	if *parallel {
		config.Experiment.Parallel = true
	}

	runner := experiment.NewRunner(config)
	summaries, err := runner.RunCSV(*healthyFile, *patientFile, *outFile)
	if err != nil {
		log.Fatalf("Experiment failed: %v", err)
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s\n", green("Experiment summary:"))

	best := summaries[0]
	for _, s := range summaries {
		fmt.Printf("  %-8s x %-9s OA %.4f±%.4f  AUC %.4f±%.4f\n",
			s.Classifier, s.Selector, s.OAMean, s.OAStd, s.AUCMean, s.AUCStd)
		if math.IsNaN(best.AUCMean) || s.AUCMean > best.AUCMean {
			best = s
		}
	}

	fmt.Printf("\nBest AUC: %.4f (%s with %s selection)\n", best.AUCMean, best.Classifier, best.Selector)
}
