// Package config loads esify settings from an optional YAML file, a .env file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/CiaranMcAleer/esify/internal/esi"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no config path is given and the file exists.
const DefaultPath = "esify.yaml"

// Config holds all esify settings.
type Config struct {
	// Pattern selects documents, relative to the target directory.
	Pattern string `yaml:"pattern"`

	// ExcludeDirs are directory names never descended into or matched.
	ExcludeDirs []string `yaml:"exclude_dirs"`

	DryRun   bool   `yaml:"dry_run"`
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Rules override the built-in block table per kind.
	Rules []RuleConfig `yaml:"rules"`
}

// RuleConfig overrides one block kind. Empty fields keep the default.
type RuleConfig struct {
	Kind        string   `yaml:"kind"`
	Label       string   `yaml:"label"`
	Placeholder string   `yaml:"placeholder"`
	Include     string   `yaml:"include"`
	Marker      string   `yaml:"marker"`
	Patterns    []string `yaml:"patterns"`
}

// DefaultConfig returns the built-in settings: top-level *.html, skipping includes/.
func DefaultConfig() *Config {
	return &Config{
		Pattern:     "*.html",
		ExcludeDirs: []string{"includes"},
		LogLevel:    "info",
	}
}

// Load reads path (or DefaultPath when path is empty and the file exists),
// then applies .env and environment overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path == "" {
		path = strings.TrimSpace(os.Getenv("ESIFY_CONFIG"))
	}
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No config file is fine.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("ESIFY_PATTERN")); v != "" {
		c.Pattern = v
	}
	if v := strings.TrimSpace(os.Getenv("ESIFY_EXCLUDE_DIRS")); v != "" {
		var dirs []string
		for _, d := range strings.Split(v, ",") {
			if d = strings.TrimSpace(d); d != "" {
				dirs = append(dirs, d)
			}
		}
		c.ExcludeDirs = dirs
	}
	if v := strings.TrimSpace(os.Getenv("ESIFY_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
}

// BuildRules compiles the block table with the configured overrides.
func (c *Config) BuildRules() (*esi.Rules, error) {
	defs := make([]esi.BlockDef, 0, len(c.Rules))
	for i, rc := range c.Rules {
		k, err := esi.ParseKind(rc.Kind)
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		defs = append(defs, esi.BlockDef{
			Kind:        k,
			Label:       rc.Label,
			Placeholder: rc.Placeholder,
			Include:     rc.Include,
			Marker:      rc.Marker,
			Patterns:    rc.Patterns,
		})
	}
	rules, err := esi.NewRules(defs)
	if err != nil {
		return nil, fmt.Errorf("compile rules: %w", err)
	}
	return rules, nil
}
