package experiment

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should yield defaults, got %v", err)
	}

	if !reflect.DeepEqual(config, DefaultConfig()) {
		t.Error("missing file did not yield the default config")
	}
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	content := `experiment:
  folds: 10
  selectors:
    enabled: [rank]
    rank:
      top_k: 3
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	exp := &config.Experiment
	if exp.Folds != 10 {
		t.Errorf("folds = %d, want 10", exp.Folds)
	}
	if !reflect.DeepEqual(exp.Selectors.Enabled, []string{"rank"}) {
		t.Errorf("enabled selectors = %v, want [rank]", exp.Selectors.Enabled)
	}
	if exp.Selectors.Rank.TopK != 3 {
		t.Errorf("top_k = %d, want 3", exp.Selectors.Rank.TopK)
	}

	// Everything the file omits falls back to defaults.
	if exp.Seed != 42 {
		t.Errorf("seed = %d, want default 42", exp.Seed)
	}
	if len(exp.Classifiers.Enabled) != 5 {
		t.Errorf("classifiers = %v, want the full bank", exp.Classifiers.Enabled)
	}
	if exp.Classifiers.Forest.NTrees != 100 {
		t.Errorf("n_trees = %d, want default 100", exp.Classifiers.Forest.NTrees)
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("experiment: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestModelConfig(t *testing.T) {
	config := DefaultConfig()
	config.Experiment.Seed = 7

	mc := config.modelConfig("forest")
	if mc.Algorithm != "forest" || mc.Seed != 7 {
		t.Errorf("unexpected model config: %+v", mc)
	}
	if mc.NTrees != 100 || mc.MaxDepth != 10 || mc.MinSplit != 2 {
		t.Errorf("forest defaults not carried: %+v", mc)
	}
}
