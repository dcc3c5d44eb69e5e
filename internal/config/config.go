// Package config provides configuration management for dotkeep using Viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/thoreinstein/dotkeep/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "dotkeep"

// DefaultRetention is the number of generations kept per tracked item when
// the config file does not say otherwise.
const DefaultRetention = 5

// Config represents the top-level configuration structure.
type Config struct {
	// SourceRoot is the directory whose entries are offered for backup.
	SourceRoot string `mapstructure:"source_root" yaml:"source_root"`

	// BackupRoot is the root of the versioned backup tree.
	BackupRoot string `mapstructure:"backup_root" yaml:"backup_root"`

	// Retention is the maximum number of generations kept per item.
	Retention int `mapstructure:"retention" yaml:"retention"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".") // Current directory
	viper.AddConfigPath(paths.AppConfigDir())

	// Environment variable support
	viper.SetEnvPrefix("DOTKEEP")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("source_root", paths.DefaultSourceRoot())
	viper.SetDefault("backup_root", paths.DefaultBackupRoot())
	viper.SetDefault("retention", DefaultRetention)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// If config file not found...
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			// Real read error (parsing, permissions, etc)
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
