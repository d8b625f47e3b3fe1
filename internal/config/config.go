// Package config loads and applies .logdup.yml configuration files
// for rule overrides, thresholds, and output settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RuleOverride allows per-rule severity or disable.
type RuleOverride struct {
	Severity string `yaml:"severity,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// Config represents the .logdup.yml configuration file.
type Config struct {
	RepositoryPath      string                  `yaml:"repository_path,omitempty"`
	SimilarityThreshold float64                 `yaml:"similarity_threshold,omitempty"`
	Workers             int                     `yaml:"workers,omitempty"`
	VolumeThreshold     int                     `yaml:"volume_threshold,omitempty"`
	FileSpanThreshold   int                     `yaml:"file_span_threshold,omitempty"`
	Format              string                  `yaml:"format,omitempty"`
	FailOn              string                  `yaml:"fail_on,omitempty"`
	Rules               string                  `yaml:"rules,omitempty"`
	DisableRules        []string                `yaml:"disable_rules,omitempty"`
	RuleOverrides       map[string]RuleOverride `yaml:"rule_overrides,omitempty"`
}

// Load reads the .logdup.yml or .logdup.yaml config file from the given path.
// If path is a file, its parent directory is used. If no config file is found,
// it returns a zero Config (not an error).
func Load(dir string) (Config, error) {
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for _, name := range []string{".logdup.yml", ".logdup.yaml"} {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
		if info.Size() > 1<<20 {
			return Config{}, fmt.Errorf("config file too large: %s (%d bytes, max 1 MB)", path, info.Size())
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		return cfg, nil
	}
	return Config{}, nil
}
