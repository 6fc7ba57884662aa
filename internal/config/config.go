// Package config loads the advisor's runtime configuration. A missing file
// is not an error; the defaults are a complete working configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"chessadvisor/internal/advisor"
	"chessadvisor/internal/eval"
)

// CacheConfig controls the persistent evaluation cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// Config is the full runtime configuration.
type Config struct {
	ModelPath        string      `yaml:"model_path"`
	MLWeight         float64     `yaml:"ml_weight"`
	HeuristicWeight  float64     `yaml:"heuristic_weight"`
	BlunderThreshold float64     `yaml:"blunder_threshold"`
	SuggestCount     int         `yaml:"suggest_count"`
	LogLevel         string      `yaml:"log_level"`
	Cache            CacheConfig `yaml:"cache"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		ModelPath:        "model.json",
		MLWeight:         eval.DefaultMLWeight,
		HeuristicWeight:  eval.DefaultHeuristicWeight,
		BlunderThreshold: advisor.DefaultBlunderThreshold,
		SuggestCount:     advisor.DefaultSuggestCount,
		LogLevel:         "info",
		Cache:            CacheConfig{Enabled: false},
	}
}

// Load reads a YAML configuration file, layering it over the defaults. A
// missing file returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.MLWeight < 0 || c.HeuristicWeight < 0 {
		return fmt.Errorf("blend weights must be non-negative, got ml=%g heuristic=%g", c.MLWeight, c.HeuristicWeight)
	}
	if c.MLWeight+c.HeuristicWeight == 0 {
		return fmt.Errorf("blend weights must not both be zero")
	}
	if c.SuggestCount < 1 {
		return fmt.Errorf("suggest_count must be at least 1, got %d", c.SuggestCount)
	}
	if c.BlunderThreshold >= 0 {
		return fmt.Errorf("blunder_threshold must be negative, got %g", c.BlunderThreshold)
	}
	return nil
}
