// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DateLayout is the calendar date format used in config files and flags.
const DateLayout = "2006-01-02"

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Grading GradingConfig `toml:"grading"`
	Store   StoreConfig   `toml:"store"`
}

// GradingConfig maps participation settings.
type GradingConfig struct {
	Threshold *int    `toml:"threshold"`
	Since     *string `toml:"since"`
	Until     *string `toml:"until"`
}

// StoreConfig maps persistence settings.
type StoreConfig struct {
	Path *string `toml:"path"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

func (c FileConfig) validate() error {
	if c.Grading.Threshold != nil && *c.Grading.Threshold < 1 {
		return fmt.Errorf("grading.threshold must be >= 1")
	}
	for key, value := range map[string]*string{"grading.since": c.Grading.Since, "grading.until": c.Grading.Until} {
		if value == nil || *value == "" {
			continue
		}
		if _, err := ParseDate(*value); err != nil {
			return fmt.Errorf("invalid %s value: %w", key, err)
		}
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date in the local time zone. An empty string yields nil.
func ParseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(DateLayout, value, time.Local)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
