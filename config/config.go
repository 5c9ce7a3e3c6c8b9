// Package config loads the training and serving configuration from a YAML
// file, falling back to defaults for anything unset.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/caseflow/escalate/errors"
)

// Config is the application's configuration model.
type Config struct {
	Training TrainingConfig `yaml:"training"`
	Serving  ServingConfig  `yaml:"serving"`
}

// TrainingConfig bounds the offline pipeline.
type TrainingConfig struct {
	// EmbeddingDim is the dense embedding width D_e.
	EmbeddingDim int `yaml:"embeddingDim"`
	// EmbeddingWindow is the co-occurrence window size.
	EmbeddingWindow int `yaml:"embeddingWindow"`
	// EmbeddingMinCount drops tokens seen fewer times from the embedding
	// vocabulary.
	EmbeddingMinCount int `yaml:"embeddingMinCount"`
	// VocabularySize is the lexical vocabulary bound K.
	VocabularySize int `yaml:"vocabularySize"`
	// BalanceRatio is the target minority-to-majority ratio after
	// oversampling.
	BalanceRatio float64 `yaml:"balanceRatio"`
	// TunerBudget is the number of hyperparameter trials.
	TunerBudget int `yaml:"tunerBudget"`
	// Folds is the stacking cross-validation fold count.
	Folds int `yaml:"folds"`
	// Seed fixes all randomized steps so runs are reproducible.
	Seed int64 `yaml:"seed"`
}

// ServingConfig bounds the scoring service.
type ServingConfig struct {
	// Addr is the listen address, e.g. ":8090".
	Addr string `yaml:"addr"`
	// BundlePath is where the trained artifact bundle is read from.
	BundlePath string `yaml:"bundlePath"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Training: TrainingConfig{
			EmbeddingDim:      100,
			EmbeddingWindow:   5,
			EmbeddingMinCount: 2,
			VocabularySize:    500,
			BalanceRatio:      0.5,
			TunerBudget:       30,
			Folds:             5,
			Seed:              42,
		},
		Serving: ServingConfig{
			Addr:       ":8090",
			BundlePath: "escalate-bundle.gob.gz",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (c Config) validate() error {
	t := c.Training
	if t.EmbeddingDim <= 0 || t.EmbeddingWindow <= 0 || t.VocabularySize <= 0 {
		return errors.Errorf("embedding and vocabulary sizes must be positive")
	}
	if t.BalanceRatio <= 0 || t.BalanceRatio > 1 {
		return errors.Errorf("balance ratio %v outside (0, 1]", t.BalanceRatio)
	}
	if t.Folds < 2 {
		return errors.Errorf("need at least 2 folds, got %d", t.Folds)
	}
	return nil
}
