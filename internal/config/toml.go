// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Timer TimerConfig `toml:"timer"`
	Store StoreConfig `toml:"store"`
	Log   LogConfig   `toml:"log"`
}

// TimerConfig maps focus timer settings.
type TimerConfig struct {
	Minutes *int    `toml:"minutes"`
	Mode    *string `toml:"mode"`
}

// StoreConfig maps persistence settings.
type StoreConfig struct {
	Path          *string `toml:"path"`
	RetentionDays *int    `toml:"retention-days"`
	Timezone      *string `toml:"timezone"`
}

// LogConfig maps diagnostic logging settings.
type LogConfig struct {
	Enabled *bool   `toml:"enabled"`
	Level   *string `toml:"level"`
	Path    *string `toml:"path"`
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
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Location resolves the configured timezone. Empty and "Local" mean the
// system zone.
func (c StoreConfig) Location() (*time.Location, error) {
	if c.Timezone == nil || *c.Timezone == "" || *c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(*c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", *c.Timezone, err)
	}
	return loc, nil
}
