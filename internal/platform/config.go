package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the optional startup configuration in the config directory.
const ConfigFileName = "config.yaml"

// DatabaseFileName is the database created in the config directory.
const DatabaseFileName = "pomodoro.db"

// FileConfig is the content of config.yaml. Options passed in code win over
// the file.
type FileConfig struct {
	DSN         string `yaml:"dsn"`
	Namespace   string `yaml:"namespace"`
	Database    string `yaml:"database"`
	EventBuffer int    `yaml:"event_buffer"`
}

// LoadFileConfig reads config.yaml from dir. A missing file yields an empty
// config.
func LoadFileConfig(dir string) (FileConfig, error) {
	var cfg FileConfig

	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// apply fills every option not set in code from the file.
func (c FileConfig) apply(o *options) {
	if o.dsn == "" {
		o.dsn = c.DSN
	}
	if o.session.Namespace == "" {
		o.session.Namespace = c.Namespace
	}
	if o.session.Database == "" {
		o.session.Database = c.Database
	}
	if o.buffer == 0 {
		o.buffer = c.EventBuffer
	}
}
