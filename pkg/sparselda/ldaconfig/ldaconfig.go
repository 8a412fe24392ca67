// Package ldaconfig loads YAML training/inference configuration, following
// the teacher's config.LoadTaxonomy pattern: a plain struct with yaml tags,
// read and unmarshaled in one step, with defaults applied on top.
package ldaconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TrainingConfig holds the tunables lda-trainer reads from a YAML file.
// Only CorpusDir has a command-line override (lda-trainer's --corpus-dir).
type TrainingConfig struct {
	CorpusDir                       string  `yaml:"corpus_dir"`
	VocabularyFile                  string  `yaml:"vocabulary_file"`
	ModelDir                        string  `yaml:"model_dir"`
	CheckpointDir                   string  `yaml:"checkpoint_dir"`
	NumTopics                       int32   `yaml:"num_topics"`
	TopicPrior                      float64 `yaml:"topic_prior"`
	WordPrior                       float64 `yaml:"word_prior"`
	TotalIterations                 int     `yaml:"total_iterations"`
	SaveModelInterval               int     `yaml:"save_model_interval"`
	SaveCheckpointInterval          int     `yaml:"save_checkpoint_interval"`
	ComputeLoglikelihoodInterval    int     `yaml:"compute_loglikelihood_interval"`
	TopicWordAccumulatedProbThresh  float64 `yaml:"topic_word_accumulated_prob_threshold"`
}

// InferenceConfig holds the tunables lda-infer reads from a YAML file.
type InferenceConfig struct {
	ModelDir         string `yaml:"model_dir"`
	VocabularyFile   string `yaml:"vocabulary_file"`
	NumChains        int    `yaml:"num_chains"`
	TotalIterations  int    `yaml:"total_iterations"`
	BurnInIterations int    `yaml:"burn_in_iterations"`
	CacheSize        int    `yaml:"cache_size"`
}

// DefaultTrainingConfig mirrors lda_trainer.py's optparse defaults.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		TopicPrior:                     0.1,
		WordPrior:                      0.01,
		TotalIterations:                10000,
		SaveModelInterval:              100,
		SaveCheckpointInterval:         10,
		ComputeLoglikelihoodInterval:   10,
		TopicWordAccumulatedProbThresh: 0.5,
	}
}

// DefaultInferenceConfig mirrors lda_inferencer.py's optparse defaults.
func DefaultInferenceConfig() InferenceConfig {
	return InferenceConfig{
		NumChains:        1,
		TotalIterations:  100,
		BurnInIterations: 20,
	}
}

// LoadTrainingConfig reads path and overlays it onto DefaultTrainingConfig.
func LoadTrainingConfig(path string) (TrainingConfig, error) {
	cfg := DefaultTrainingConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("ldaconfig: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("ldaconfig: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// LoadInferenceConfig reads path and overlays it onto DefaultInferenceConfig.
func LoadInferenceConfig(path string) (InferenceConfig, error) {
	cfg := DefaultInferenceConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("ldaconfig: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("ldaconfig: parsing %s: %w", path, err)
	}
	return cfg, nil
}
