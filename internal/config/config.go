// Package config loads client configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default configuration file location.
const ConfigPath = "config.yaml"

const (
	defaultBaseURL = "http://127.0.0.1:8000/api"
	defaultTimeout = "15s"
	defaultLevel   = "info"
)

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	APIBaseURL     string `yaml:"apiBaseURL"`
	SessionPath    string `yaml:"sessionPath"`
	RequestTimeout string `yaml:"requestTimeout"`
	LogLevel       string `yaml:"logLevel"`
}

// Load reads config from path (defaults to config.yaml). A missing file is
// not an error; defaults apply. Environment variables override file values.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	// Override with environment variables
	if v := os.Getenv("BOOKORACLE_API_BASE"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("BOOKORACLE_SESSION_PATH"); v != "" {
		cfg.SessionPath = v
	}
	if v := os.Getenv("BOOKORACLE_TIMEOUT"); v != "" {
		cfg.RequestTimeout = v
	}
	if v := os.Getenv("BOOKORACLE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultBaseURL
	}
	if cfg.RequestTimeout == "" {
		cfg.RequestTimeout = defaultTimeout
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLevel
	}
	if cfg.SessionPath == "" {
		cfg.SessionPath = defaultSessionPath()
	}
	return cfg, nil
}

// Timeout parses the configured request timeout.
func (c FileConfig) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("parse request timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return d, nil
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "bookoracle.db"
	}
	return filepath.Join(home, ".bookoracle", "session.db")
}
