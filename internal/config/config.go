// Package config loads the YAML settings file and applies environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvDBPath    = "MEMORY_INSIGHTS_DB"
	EnvProjectID = "MEMORY_INSIGHTS_PROJECT_ID"
)

// ErrInvalidThreshold is returned when an insights threshold is not positive.
var ErrInvalidThreshold = errors.New("threshold must be positive")

// InsightsConfig holds the analysis thresholds.
type InsightsConfig struct {
	StaleRuleDays    int `yaml:"stale_rule_days" json:"stale_rule_days"`
	WeeklyWindowDays int `yaml:"weekly_window_days" json:"weekly_window_days"`
}

// Config is the on-disk settings file.
type Config struct {
	DBPath    string         `yaml:"db_path" json:"db_path"`
	ProjectID string         `yaml:"project_id,omitempty" json:"project_id,omitempty"`
	LogLevel  string         `yaml:"log_level" json:"log_level"`
	Insights  InsightsConfig `yaml:"insights" json:"insights"`
}

// Dir returns ~/.memory-insights, falling back to the working directory when
// no home directory is available.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".memory-insights"
	}
	return filepath.Join(home, ".memory-insights")
}

// DefaultPath is the config file used when --config is not given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		DBPath:   filepath.Join(Dir(), "memory.db"),
		LogLevel: "info",
		Insights: InsightsConfig{
			StaleRuleDays:    45,
			WeeklyWindowDays: 7,
		},
	}
}

// Load reads the config at path. A missing file yields the defaults. Keys left
// out of the file keep their default values. Environment overrides are applied
// last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvProjectID); v != "" {
		c.ProjectID = v
	}
}

// Validate rejects non-positive insights thresholds with ErrInvalidThreshold.
func (c *Config) Validate() error {
	if c.Insights.StaleRuleDays <= 0 {
		return fmt.Errorf("insights.stale_rule_days %d: %w", c.Insights.StaleRuleDays, ErrInvalidThreshold)
	}
	if c.Insights.WeeklyWindowDays <= 0 {
		return fmt.Errorf("insights.weekly_window_days %d: %w", c.Insights.WeeklyWindowDays, ErrInvalidThreshold)
	}
	return nil
}

// ResolveProject picks the project id: an explicit flag value wins, then the
// environment and config file (already merged into c.ProjectID).
func (c *Config) ResolveProject(flag string) string {
	if flag != "" {
		return flag
	}
	return c.ProjectID
}

// Save writes cfg as YAML to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
