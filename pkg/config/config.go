// Package config handles application configuration.
//
// It provides:
//   - Flag parsing with CLI arguments
//   - Environment variable support (with CLI override)
//   - Configuration validation
//   - Precedence: CLI flags > environment variables > defaults
//
// Supported environment variables:
//   - WARMUP_USERNAME: My Warmup account email address
//   - WARMUP_PASSWORD: My Warmup account password
//   - WARMUP_PORT: HTTP server port
//   - WARMUP_LOCATION_ID: Filter to a specific Warmup location
//   - WARMUP_SCRAPE_TIMEOUT: Timeout for API requests (seconds)
//   - WARMUP_LOG_LEVEL: Logging level (debug, info, warn, error)
//   - WARMUP_LOG_FORMAT: Logging format (json, text)
//
// Example usage:
//
//	cfg := config.Load()
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
package config

import (
	"flag"
	"fmt"
	"os"
)

// Config holds the application configuration
type Config struct {
	// My Warmup account credentials
	Username string
	Password string

	// Server configuration
	Port int

	// Warmup API configuration
	LocationID string

	// Collection configuration
	ScrapeTimeout int

	// Logging
	LogLevel  string
	LogFormat string
}

// Load parses environment variables and command-line flags and returns a Config
// Precedence: CLI flags > environment variables > defaults
func Load() *Config {
	return LoadWithArgs(os.Args[1:])
}

// LoadWithArgs loads configuration with explicit arguments (useful for testing)
func LoadWithArgs(args []string) *Config {
	cfg := &Config{}

	// Read environment variables
	envUsername := os.Getenv("WARMUP_USERNAME")
	envPassword := os.Getenv("WARMUP_PASSWORD")
	envPort := os.Getenv("WARMUP_PORT")
	envLocationID := os.Getenv("WARMUP_LOCATION_ID")
	envScrapeTimeout := os.Getenv("WARMUP_SCRAPE_TIMEOUT")
	envLogLevel := os.Getenv("WARMUP_LOG_LEVEL")
	envLogFormat := os.Getenv("WARMUP_LOG_FORMAT")

	if envPort == "" {
		envPort = "9101"
	}
	if envScrapeTimeout == "" {
		envScrapeTimeout = "10"
	}
	if envLogLevel == "" {
		envLogLevel = "info"
	}
	if envLogFormat == "" {
		envLogFormat = "text"
	}

	// Create a new FlagSet for this invocation (allows multiple calls in tests)
	fs := flag.NewFlagSet("config", flag.ContinueOnError)

	// Parse command-line flags (these override env vars)
	fs.StringVar(&cfg.Username, "username", envUsername, "My Warmup account email (env: WARMUP_USERNAME, required)")
	fs.StringVar(&cfg.Password, "password", envPassword, "My Warmup account password (env: WARMUP_PASSWORD, required)")

	// Server configuration
	fs.IntVar(&cfg.Port, "port", parseEnvInt(envPort, 9101), "HTTP server listen port (env: WARMUP_PORT)")
	fs.StringVar(&cfg.LocationID, "location-id", envLocationID, "Warmup location ID (env: WARMUP_LOCATION_ID, optional)")
	fs.IntVar(&cfg.ScrapeTimeout, "scrape-timeout", parseEnvInt(envScrapeTimeout, 10), "Maximum time in seconds to wait for API response (env: WARMUP_SCRAPE_TIMEOUT)")
	fs.StringVar(&cfg.LogLevel, "log-level", envLogLevel, "Logging verbosity: debug, info, warn, error (env: WARMUP_LOG_LEVEL)")
	fs.StringVar(&cfg.LogFormat, "log-format", envLogFormat, "Logging format: json or text (env: WARMUP_LOG_FORMAT)")

	// Parse args - in production this will be os.Args, in tests can be empty or custom
	// FlagSet is configured with ContinueOnError, so parse errors are handled gracefully
	_ = fs.Parse(args)

	return cfg
}

// parseEnvInt parses an environment variable as an integer, returning default if invalid
func parseEnvInt(envValue string, defaultValue int) int {
	if envValue == "" {
		return defaultValue
	}
	var result int
	_, err := fmt.Sscanf(envValue, "%d", &result)
	if err != nil {
		return defaultValue
	}
	return result
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("username is required (use -username flag or WARMUP_USERNAME env var)")
	}

	if c.Password == "" {
		return fmt.Errorf("password is required (use -password flag or WARMUP_PASSWORD env var)")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Port)
	}

	if c.ScrapeTimeout < 1 {
		return fmt.Errorf("invalid scrape-timeout: %d (must be at least 1 second)", c.ScrapeTimeout)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log-level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid log-format: %s (must be 'json' or 'text')", c.LogFormat)
	}

	return nil
}

// String returns a string representation of the config (without sensitive data)
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Username: %s, LocationID: %s, ScrapeTimeout: %ds, LogLevel: %s}",
		c.Port, c.Username, c.LocationID, c.ScrapeTimeout, c.LogLevel)
}
