// Package config loads the server configuration from YAML.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server struct {
		Port      int    `yaml:"port"`
		StaticDir string `yaml:"static_dir"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Port    int    `yaml:"port"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Kitchen struct {
		PrepDelaySeconds int `yaml:"prep_delay_seconds"`
	} `yaml:"kitchen"`
	Dialogflow struct {
		ProjectID string `yaml:"project_id"`
		SessionID string `yaml:"session_id"`
		Language  string `yaml:"language"`
	} `yaml:"dialogflow"`
}

// Load reads the YAML file at path, fills in defaults, and applies the PORT
// environment override. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Run on defaults.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Server.Port = p
	}
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = 3000
	cfg.Server.StaticDir = "web/static"
	cfg.Metrics.Enabled = true
	cfg.Metrics.Port = 9090
	cfg.Metrics.Path = "/metrics"
	cfg.Kitchen.PrepDelaySeconds = 5
	cfg.Dialogflow.ProjectID = "panda-hinl"
	cfg.Dialogflow.SessionID = "web-user-session"
	cfg.Dialogflow.Language = "en"
	return cfg
}
