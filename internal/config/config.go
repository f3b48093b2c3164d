// Package config loads SDK settings from the environment, optionally
// overlaid by a YAML file. Explicit client options always win over both.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL = "https://vectorgov.io/api/v1"

	EnvAPIKey   = "VECTORGOV_API_KEY"
	EnvBaseURL  = "VECTORGOV_BASE_URL"
	EnvTimeout  = "VECTORGOV_TIMEOUT_SECONDS"
	EnvLogLevel = "VECTORGOV_LOG_LEVEL"
	EnvRPS      = "VECTORGOV_REQUESTS_PER_SECOND"
)

type Config struct {
	APIKey   string  `yaml:"api_key"`
	BaseURL  string  `yaml:"base_url"`
	Timeout  int     `yaml:"timeout_seconds"`
	LogLevel string  `yaml:"log_level"`
	RPS      float64 `yaml:"requests_per_second"`
}

// Load reads the environment with defaults for everything but the API key.
func Load() Config {
	return Config{
		APIKey:   mustEnv(EnvAPIKey, ""),
		BaseURL:  mustEnv(EnvBaseURL, DefaultBaseURL),
		Timeout:  mustEnvInt(EnvTimeout, 30),
		LogLevel: mustEnv(EnvLogLevel, "info"),
		RPS:      mustEnvFloat(EnvRPS, 0),
	}
}

// LoadFile overlays the environment config with a YAML file: file values
// replace environment values only where the file sets them.
func LoadFile(path string) (Config, error) {
	cfg := Load()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}

	if file.APIKey != "" {
		cfg.APIKey = file.APIKey
	}
	if file.BaseURL != "" {
		cfg.BaseURL = file.BaseURL
	}
	if file.Timeout > 0 {
		cfg.Timeout = file.Timeout
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.RPS > 0 {
		cfg.RPS = file.RPS
	}
	return cfg, nil
}

// TimeoutDuration converts the configured timeout to a time.Duration.
func (c Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
