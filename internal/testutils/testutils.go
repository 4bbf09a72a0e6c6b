package testutils

import (
	"io"
	"time"

	"github.com/dalfonso89/rolimons-bridge/internal/config"
	"github.com/dalfonso89/rolimons-bridge/internal/logger"
)

// MockLogger creates a quiet logger for testing
func MockLogger() *logger.Logger {
	return logger.NewWithOutput("debug", io.Discard)
}

// MockConfig creates a configuration for testing with the HTTP surface enabled
func MockConfig() *config.Config {
	return &config.Config{
		LogLevel:          "debug",
		Transport:         config.TransportHTTP,
		HTTPHost:          "127.0.0.1",
		Port:              "0",
		CORSAllowedOrigin: "*",
		ShutdownTimeout:   time.Second,
	}
}
