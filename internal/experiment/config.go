package experiment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"szclassifier/internal/models"
	"szclassifier/internal/selection"
)

// Config drives a whole run: fold count, seed, which selectors and
// classifiers enter the comparison grid, and their parameters. Zero-valued
// fields fall back to defaults so a partial YAML file works.
type Config struct {
	Experiment struct {
		Folds     int   `yaml:"folds"`
		Seed      int64 `yaml:"seed"`
		Parallel  bool  `yaml:"parallel"`
		Workers   int   `yaml:"workers"`
		Selectors struct {
			Enabled []string `yaml:"enabled"`
			Rank    struct {
				TopK int    `yaml:"top_k"`
				Stat string `yaml:"stat"`
			} `yaml:"rank"`
			PCA struct {
				Components        int     `yaml:"components"`
				VarianceThreshold float64 `yaml:"variance_threshold"`
			} `yaml:"pca"`
			Stepwise struct {
				MaxFeatures int `yaml:"max_features"`
			} `yaml:"stepwise"`
		} `yaml:"selectors"`
		Classifiers struct {
			Enabled []string `yaml:"enabled"`
			SVM     struct {
				C      []float64 `yaml:"c"`
				Epochs int       `yaml:"epochs"`
			} `yaml:"svm"`
			Forest struct {
				NTrees          int `yaml:"n_trees"`
				MaxDepth        int `yaml:"max_depth"`
				MinSamplesSplit int `yaml:"min_samples_split"`
			} `yaml:"forest"`
			Tree struct {
				MaxDepth        int `yaml:"max_depth"`
				MinSamplesSplit int `yaml:"min_samples_split"`
			} `yaml:"tree"`
			BagLS struct {
				NEstimators int     `yaml:"n_estimators"`
				Lambda      float64 `yaml:"lambda"`
			} `yaml:"bag_ls"`
			MLP struct {
				Hidden        []int     `yaml:"hidden"`
				LearningRates []float64 `yaml:"learning_rates"`
				Epochs        int       `yaml:"epochs"`
			} `yaml:"mlp"`
		} `yaml:"classifiers"`
	} `yaml:"experiment"`
}

func DefaultConfig() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// LoadConfig reads a YAML config file; a missing file yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	config := &Config{}

	raw, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			config.applyDefaults()
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(raw, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}

	config.applyDefaults()
	return config, nil
}

func (c *Config) applyDefaults() {
	exp := &c.Experiment

	if exp.Folds <= 0 {
		exp.Folds = 5
	}
	if exp.Seed == 0 {
		exp.Seed = 42
	}
	if exp.Workers <= 0 {
		exp.Workers = 4
	}

	if len(exp.Selectors.Enabled) == 0 {
		exp.Selectors.Enabled = selection.Bank()
	}
	if exp.Selectors.Rank.TopK <= 0 {
		exp.Selectors.Rank.TopK = 10
	}
	if exp.Selectors.Rank.Stat == "" {
		exp.Selectors.Rank.Stat = "d"
	}
	if exp.Selectors.PCA.Components <= 0 && exp.Selectors.PCA.VarianceThreshold <= 0 {
		exp.Selectors.PCA.VarianceThreshold = 0.95
	}

	if len(exp.Classifiers.Enabled) == 0 {
		exp.Classifiers.Enabled = models.Bank()
	}
	if len(exp.Classifiers.SVM.C) == 0 {
		exp.Classifiers.SVM.C = []float64{0.1, 1, 10}
	}
	if exp.Classifiers.SVM.Epochs <= 0 {
		exp.Classifiers.SVM.Epochs = 200
	}
	if exp.Classifiers.Forest.NTrees <= 0 {
		exp.Classifiers.Forest.NTrees = 100
	}
	if exp.Classifiers.Forest.MaxDepth <= 0 {
		exp.Classifiers.Forest.MaxDepth = 10
	}
	if exp.Classifiers.Forest.MinSamplesSplit <= 0 {
		exp.Classifiers.Forest.MinSamplesSplit = 2
	}
	if exp.Classifiers.Tree.MaxDepth <= 0 {
		exp.Classifiers.Tree.MaxDepth = 10
	}
	if exp.Classifiers.Tree.MinSamplesSplit <= 0 {
		exp.Classifiers.Tree.MinSamplesSplit = 2
	}
	if exp.Classifiers.BagLS.NEstimators <= 0 {
		exp.Classifiers.BagLS.NEstimators = 30
	}
	if exp.Classifiers.BagLS.Lambda <= 0 {
		exp.Classifiers.BagLS.Lambda = 1e-2
	}
	if len(exp.Classifiers.MLP.Hidden) == 0 {
		exp.Classifiers.MLP.Hidden = []int{4, 8}
	}
	if len(exp.Classifiers.MLP.LearningRates) == 0 {
		exp.Classifiers.MLP.LearningRates = []float64{0.01, 0.1}
	}
	if exp.Classifiers.MLP.Epochs <= 0 {
		exp.Classifiers.MLP.Epochs = 300
	}
}

func (c *Config) selectorConfig() selection.Config {
	exp := &c.Experiment
	return selection.Config{
		TopK:              exp.Selectors.Rank.TopK,
		Stat:              exp.Selectors.Rank.Stat,
		Components:        exp.Selectors.PCA.Components,
		VarianceThreshold: exp.Selectors.PCA.VarianceThreshold,
		MaxFeatures:       exp.Selectors.Stepwise.MaxFeatures,
	}
}

func (c *Config) modelConfig(algorithm string) models.ModelConfig {
	exp := &c.Experiment

	config := models.ModelConfig{
		Algorithm: algorithm,
		Seed:      exp.Seed,
	}

	switch algorithm {
	case "svm":
		config.C = exp.Classifiers.SVM.C
		config.Epochs = exp.Classifiers.SVM.Epochs
	case "forest":
		config.NTrees = exp.Classifiers.Forest.NTrees
		config.MaxDepth = exp.Classifiers.Forest.MaxDepth
		config.MinSplit = exp.Classifiers.Forest.MinSamplesSplit
	case "tree":
		config.MaxDepth = exp.Classifiers.Tree.MaxDepth
		config.MinSplit = exp.Classifiers.Tree.MinSamplesSplit
	case "bag-ls":
		config.NEstimators = exp.Classifiers.BagLS.NEstimators
		config.Lambda = exp.Classifiers.BagLS.Lambda
	case "mlp":
		config.HiddenSizes = exp.Classifiers.MLP.Hidden
		config.LearningRates = exp.Classifiers.MLP.LearningRates
		config.Epochs = exp.Classifiers.MLP.Epochs
	}

	return config
}
