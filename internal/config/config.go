package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// Agriport API
	APIURL      string        `env:"AGRIPORT_API_URL" default:"http://localhost:8000"`
	WSURL       string        `env:"AGRIPORT_WS_URL" default:"ws://localhost:8000"`
	AuthScheme  string        `env:"AUTH_SCHEME" default:"Token"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" default:"10s"`

	// Polling
	NotificationPollInterval time.Duration `env:"NOTIFICATION_POLL_INTERVAL" default:"5s"`
	MessagePollInterval      time.Duration `env:"MESSAGE_POLL_INTERVAL" default:"3s"`

	// Rate limiting for outgoing requests
	RequestsPerSecond float64 `env:"REQUESTS_PER_SECOND" default:"10"`
	RequestBurst      int     `env:"REQUEST_BURST" default:"20"`

	// Web view
	WebAppPort int `env:"WEBAPP_PORT" default:"3000"`

	// Session persistence
	SessionBackend string `env:"SESSION_BACKEND" default:"keyring"` // keyring or file
	SessionFile    string `env:"SESSION_FILE" default:""`

	// Development
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file from the working directory
	if err := godotenv.Load(".env"); err != nil {
		// If .env file doesn't exist, that's OK - we can still use system env vars
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}

	// API endpoints
	if err := loadEnvString(&config.APIURL, "AGRIPORT_API_URL", "http://localhost:8000"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.WSURL, "AGRIPORT_WS_URL", "ws://localhost:8000"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.AuthScheme, "AUTH_SCHEME", "Token"); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.HTTPTimeout, "HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	// Polling
	if err := loadEnvDuration(&config.NotificationPollInterval, "NOTIFICATION_POLL_INTERVAL", 5*time.Second); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.MessagePollInterval, "MESSAGE_POLL_INTERVAL", 3*time.Second); err != nil {
		return nil, err
	}

	// Rate limiting
	if err := loadEnvFloat(&config.RequestsPerSecond, "REQUESTS_PER_SECOND", 10); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.RequestBurst, "REQUEST_BURST", 20); err != nil {
		return nil, err
	}

	// Web view
	if err := loadEnvInt(&config.WebAppPort, "WEBAPP_PORT", 3000); err != nil {
		return nil, err
	}

	// Session persistence
	if err := loadEnvString(&config.SessionBackend, "SESSION_BACKEND", "keyring"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SessionFile, "SESSION_FILE", ""); err != nil {
		return nil, err
	}

	// Development
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "info"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", "text"); err != nil {
		return nil, err
	}

	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvFloat(target *float64, key string, defaultValue float64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.WebAppPort < 1 || c.WebAppPort > 65535 {
		errors = append(errors, "WEBAPP_PORT must be between 1 and 65535")
	}

	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		errors = append(errors, "AGRIPORT_API_URL must start with http:// or https://")
	}
	if !strings.HasPrefix(c.WSURL, "ws://") && !strings.HasPrefix(c.WSURL, "wss://") {
		errors = append(errors, "AGRIPORT_WS_URL must start with ws:// or wss://")
	}

	// Only the two schemes the API recognises are allowed
	validSchemes := []string{"Token", "Bearer"}
	if !contains(validSchemes, c.AuthScheme) {
		errors = append(errors, fmt.Sprintf("AUTH_SCHEME must be one of: %s", strings.Join(validSchemes, ", ")))
	}

	validBackends := []string{"keyring", "file"}
	if !contains(validBackends, c.SessionBackend) {
		errors = append(errors, fmt.Sprintf("SESSION_BACKEND must be one of: %s", strings.Join(validBackends, ", ")))
	}

	validLogLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	if c.NotificationPollInterval < time.Second {
		errors = append(errors, "NOTIFICATION_POLL_INTERVAL must be at least 1s")
	}
	if c.MessagePollInterval < time.Second {
		errors = append(errors, "MESSAGE_POLL_INTERVAL must be at least 1s")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// Helper function to check if slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
