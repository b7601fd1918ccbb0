package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the client configuration
type Config struct {
	Backend struct {
		BaseURL        string `yaml:"base_url" env:"BACKEND_BASE_URL"`
		SocketURL      string `yaml:"socket_url" env:"BACKEND_SOCKET_URL"`
		RequestTimeout string `yaml:"request_timeout" env:"BACKEND_REQUEST_TIMEOUT"`
	} `yaml:"backend"`

	Credentials struct {
		Username  string `yaml:"username" env:"FORUM_USERNAME"`
		Password  string `yaml:"password" env:"FORUM_PASSWORD"`
		TokenFile string `yaml:"token_file" env:"FORUM_TOKEN_FILE"`
	} `yaml:"credentials"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// Config file is optional; env vars can carry everything
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Backend.BaseURL = "http://localhost:5000/api"
	config.Backend.SocketURL = "ws://localhost:5000/ws"
	config.Backend.RequestTimeout = "15s"

	config.Credentials.TokenFile = ".forum-token"

	config.Logging.Level = "info"
	config.Logging.Format = "text"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL is required")
	}

	if config.Backend.SocketURL == "" {
		return fmt.Errorf("backend socket URL is required")
	}

	if !strings.HasPrefix(config.Backend.SocketURL, "ws://") && !strings.HasPrefix(config.Backend.SocketURL, "wss://") {
		return fmt.Errorf("backend socket URL must use ws or wss scheme")
	}

	if _, err := time.ParseDuration(config.Backend.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request timeout format: %w", err)
	}

	return nil
}

// RequestTimeout returns the parsed request timeout.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Backend.RequestTimeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}
