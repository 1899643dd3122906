package config

import (
	"os"
	"strconv"
	"strings"

	"teasim/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Simulation SimulationConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	APIPort string
	GinMode string
}

// DatabaseConfig holds database connection settings. URL is optional: with
// no database the application runs with persistence disabled.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// DSN returns the connection string with SSL_MODE applied. An sslmode
// already present in the URL wins over the env setting.
func (c DatabaseConfig) DSN() string {
	if c.URL == "" || c.SSLMode == "" || strings.Contains(c.URL, "sslmode=") {
		return c.URL
	}
	sep := "?"
	if strings.Contains(c.URL, "?") {
		sep = "&"
	}
	return c.URL + sep + "sslmode=" + c.SSLMode
}

// SimulationConfig holds engine defaults applied when a request leaves them
// unset. The per-run montecarlo.SimulationConfig always wins.
type SimulationConfig struct {
	DefaultIterations int
	ParallelBatches   int
	DownsideThreshold float64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:     loadServerConfig(),
		Database:   loadDatabaseConfig(),
		Simulation: loadSimulationConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		APIPort: getEnvOrDefault("API_PORT", "8081"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:     getEnvOrDefault("DATABASE_URL", ""),
		SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
	}
}

func loadSimulationConfig() SimulationConfig {
	return SimulationConfig{
		DefaultIterations: getEnvIntOrDefault("SIM_DEFAULT_ITERATIONS", 10000),
		ParallelBatches:   getEnvIntOrDefault("SIM_PARALLEL_BATCHES", 0),
		DownsideThreshold: getEnvFloatOrDefault("SIM_DOWNSIDE_THRESHOLD", -1_000_000),
	}
}

func validateConfig(config *Config) error {
	if config.Simulation.DefaultIterations <= 0 {
		return errors.ConfigInvalid("SIM_DEFAULT_ITERATIONS must be positive")
	}
	if config.Simulation.ParallelBatches < 0 {
		return errors.ConfigInvalid("SIM_PARALLEL_BATCHES cannot be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
