// Package config loads the optional csvup.yaml project file. The file lets a
// project pin its destination table, delimiter, and connection defaults so a
// plain `csvup load data.csv` works without flags.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConnectionConfig holds connection defaults. Flags and environment
// variables take precedence over every field here.
type ConnectionConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// ProjectConfig is the root of csvup.yaml.
type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`

	// Table is the default destination table name.
	Table string `yaml:"table,omitempty"`

	// Delimiter is the field separator as a one-character string.
	Delimiter string `yaml:"delimiter,omitempty"`

	// Timeout is a duration string (e.g. "90s") overriding the default.
	Timeout string `yaml:"timeout,omitempty"`
}

const ConfigFileName = "csvup.yaml"

// Load reads csvup.yaml from dir.
func Load(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
