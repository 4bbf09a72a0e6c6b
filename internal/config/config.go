package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Transport names accepted in BRIDGE_TRANSPORT
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
	TransportBoth  = "both"
)

// Config holds all configuration for the bridge host process
type Config struct {
	LogLevel  string
	Transport string

	// Local HTTP invoke surface
	HTTPHost          string
	Port              string
	CORSAllowedOrigin string
	ShutdownTimeout   time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		Transport: getEnv("BRIDGE_TRANSPORT", TransportStdio),

		HTTPHost:          getEnv("HTTP_HOST", "127.0.0.1"),
		Port:              getEnv("PORT", "5174"),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		ShutdownTimeout:   time.Duration(atoiOr(getEnv("SHUTDOWN_TIMEOUT_SECONDS", "5"), 5)) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configured values can be served
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportHTTP, TransportBoth:
	default:
		return fmt.Errorf("invalid BRIDGE_TRANSPORT %q: want %s, %s or %s", c.Transport, TransportStdio, TransportHTTP, TransportBoth)
	}

	if c.HTTPEnabled() {
		port, err := strconv.Atoi(c.Port)
		if err != nil || port < 0 || port > 65535 {
			return fmt.Errorf("invalid PORT %q", c.Port)
		}
	}
	return nil
}

// StdioEnabled reports whether the JSON-RPC stdio transport should run
func (c *Config) StdioEnabled() bool {
	return c.Transport == TransportStdio || c.Transport == TransportBoth
}

// HTTPEnabled reports whether the local HTTP invoke surface should run
func (c *Config) HTTPEnabled() bool {
	return c.Transport == TransportHTTP || c.Transport == TransportBoth
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return c.HTTPHost + ":" + c.Port
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func atoiOr(s string, fallback int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return i
}
