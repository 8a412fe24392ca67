package ldaconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTrainingConfigOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "train.yaml")
	yaml := "corpus_dir: /data/corpus\nnum_topics: 50\ntopic_prior: 0.25\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadTrainingConfig(path)
	if err != nil {
		t.Fatalf("LoadTrainingConfig: %v", err)
	}
	if cfg.CorpusDir != "/data/corpus" {
		t.Errorf("CorpusDir = %q, want /data/corpus", cfg.CorpusDir)
	}
	if cfg.NumTopics != 50 {
		t.Errorf("NumTopics = %d, want 50", cfg.NumTopics)
	}
	if cfg.TopicPrior != 0.25 {
		t.Errorf("TopicPrior = %v, want 0.25 (overridden)", cfg.TopicPrior)
	}
	if cfg.WordPrior != 0.01 {
		t.Errorf("WordPrior = %v, want 0.01 (default preserved)", cfg.WordPrior)
	}
	if cfg.TotalIterations != 10000 {
		t.Errorf("TotalIterations = %d, want 10000 (default preserved)", cfg.TotalIterations)
	}
}

func TestLoadInferenceConfigOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "infer.yaml")
	yaml := "model_dir: /data/model\nnum_chains: 5\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadInferenceConfig(path)
	if err != nil {
		t.Fatalf("LoadInferenceConfig: %v", err)
	}
	if cfg.ModelDir != "/data/model" {
		t.Errorf("ModelDir = %q, want /data/model", cfg.ModelDir)
	}
	if cfg.NumChains != 5 {
		t.Errorf("NumChains = %d, want 5 (overridden)", cfg.NumChains)
	}
	if cfg.TotalIterations != 100 {
		t.Errorf("TotalIterations = %d, want 100 (default preserved)", cfg.TotalIterations)
	}
}

func TestLoadTrainingConfigMissingFile(t *testing.T) {
	if _, err := LoadTrainingConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("want error for missing config file")
	}
}
