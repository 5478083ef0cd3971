// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Data   DataConfig   `toml:"data"`
	Export ExportConfig `toml:"export"`
	Report ReportConfig `toml:"report"`
}

// DataConfig maps storage-related settings.
type DataConfig struct {
	DB *string `toml:"db"`
}

// ExportConfig maps export-related settings.
type ExportConfig struct {
	Out       *string `toml:"out"`
	Delimiter *string `toml:"delimiter"`
}

// ReportConfig maps report and TUI settings.
type ReportConfig struct {
	Level      *int    `toml:"level"`
	Items      *string `toml:"items"`
	PlotHeight *int    `toml:"plot-height"`
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
