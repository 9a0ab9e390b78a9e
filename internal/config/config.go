// Package config loads treescout configuration from YAML, merging file
// values over defaults. Missing files are not an error; malformed files
// are.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// HistoryConfig configures the run-history store.
type HistoryConfig struct {
	// Enabled turns run-history recording on.
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database.
	DBPath string `yaml:"db_path"`

	// KeepRuns caps the number of retained runs per root (0 = unlimited).
	KeepRuns int `yaml:"keep_runs"`
}

// Config holds the engine and CLI options.
type Config struct {
	// MaxFileSize bounds individual file reads during analysis.
	MaxFileSize int64 `yaml:"max_file_size"`

	// FollowSymlinks descends into symlinked directories (with cycle
	// protection) instead of recording links as leaves.
	FollowSymlinks bool `yaml:"follow_symlinks"`

	// PurposeTag is the marker comment lines must carry, e.g. "GynTree:".
	PurposeTag string `yaml:"purpose_tag"`

	// Workers bounds concurrent traversal fan-out (1 = sequential).
	Workers int `yaml:"workers"`

	// LogLevel sets logging verbosity (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// RulesFile is the path of the persisted exclusion rules, relative
	// to the analyzed root unless absolute.
	RulesFile string `yaml:"rules_file"`

	// History configures run-history recording.
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		MaxFileSize:    1 << 20, // 1 MiB
		FollowSymlinks: false,
		PurposeTag:     "GynTree:",
		Workers:        1,
		LogLevel:       "info",
		RulesFile:      ".treescout/rules.yaml",
		History: HistoryConfig{
			Enabled:  true,
			DBPath:   ".treescout/history.db",
			KeepRuns: 100,
		},
	}
}

// LoadConfig loads configuration from path. A missing file yields the
// defaults without error; a malformed file is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Max file size accepts human-readable values ("512kb", "2mb"), so
	// it rides through a string-typed shadow struct.
	type yamlConfig struct {
		MaxFileSize    string        `yaml:"max_file_size"`
		FollowSymlinks *bool         `yaml:"follow_symlinks"`
		PurposeTag     string        `yaml:"purpose_tag"`
		Workers        int           `yaml:"workers"`
		LogLevel       string        `yaml:"log_level"`
		RulesFile      string        `yaml:"rules_file"`
		History        *HistoryConfig `yaml:"history"`
	}
	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if yamlCfg.MaxFileSize != "" {
		size, err := ParseSize(yamlCfg.MaxFileSize)
		if err != nil {
			return nil, fmt.Errorf("invalid max_file_size %q: %w", yamlCfg.MaxFileSize, err)
		}
		cfg.MaxFileSize = size
	}
	if yamlCfg.FollowSymlinks != nil {
		cfg.FollowSymlinks = *yamlCfg.FollowSymlinks
	}
	if yamlCfg.PurposeTag != "" {
		cfg.PurposeTag = yamlCfg.PurposeTag
	}
	if yamlCfg.Workers != 0 {
		cfg.Workers = yamlCfg.Workers
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.RulesFile != "" {
		cfg.RulesFile = yamlCfg.RulesFile
	}
	if yamlCfg.History != nil {
		cfg.History = *yamlCfg.History
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFromDir loads .treescout/config.yaml from the given directory,
// falling back to defaults when absent.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".treescout", "config.yaml"))
}

// Validate checks field ranges and enums.
func (c *Config) Validate() error {
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive, got %d", c.MaxFileSize)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

// ParseSize parses a byte size with an optional unit suffix: "65536",
// "64kb", "1mb", "2gb". Units are case-insensitive and base-1024.
func ParseSize(s string) (int64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "kb"):
		mult, s = 1<<10, strings.TrimSuffix(s, "kb")
	case strings.HasSuffix(s, "mb"):
		mult, s = 1<<20, strings.TrimSuffix(s, "mb")
	case strings.HasSuffix(s, "gb"):
		mult, s = 1<<30, strings.TrimSuffix(s, "gb")
	case strings.HasSuffix(s, "b"):
		s = strings.TrimSuffix(s, "b")
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("size must be positive")
	}
	return n * mult, nil
}
