package config

import (
	"testing"
	"time"
)

var configKeys = []string{
	"LOG_LEVEL",
	"BRIDGE_TRANSPORT",
	"HTTP_HOST",
	"PORT",
	"CORS_ALLOWED_ORIGIN",
	"SHUTDOWN_TIMEOUT_SECONDS",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(*Config) bool
	}{
		{
			name:    "default configuration",
			envVars: map[string]string{},
			expected: func(cfg *Config) bool {
				return cfg.LogLevel == "info" &&
					cfg.Transport == TransportStdio &&
					cfg.HTTPHost == "127.0.0.1" &&
					cfg.Port == "5174" &&
					cfg.CORSAllowedOrigin == "*" &&
					cfg.ShutdownTimeout == 5*time.Second
			},
		},
		{
			name: "custom configuration",
			envVars: map[string]string{
				"LOG_LEVEL":                "debug",
				"BRIDGE_TRANSPORT":         "both",
				"HTTP_HOST":                "0.0.0.0",
				"PORT":                     "9090",
				"CORS_ALLOWED_ORIGIN":      "tauri://localhost",
				"SHUTDOWN_TIMEOUT_SECONDS": "12",
			},
			expected: func(cfg *Config) bool {
				return cfg.LogLevel == "debug" &&
					cfg.Transport == TransportBoth &&
					cfg.Addr() == "0.0.0.0:9090" &&
					cfg.CORSAllowedOrigin == "tauri://localhost" &&
					cfg.ShutdownTimeout == 12*time.Second
			},
		},
		{
			name: "bad shutdown timeout falls back",
			envVars: map[string]string{
				"SHUTDOWN_TIMEOUT_SECONDS": "soon",
			},
			expected: func(cfg *Config) bool {
				return cfg.ShutdownTimeout == 5*time.Second
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if !tt.expected(cfg) {
				t.Errorf("Load() configuration does not match expected values: %+v", cfg)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{"unknown transport", map[string]string{"BRIDGE_TRANSPORT": "websocket"}},
		{"non numeric port", map[string]string{"BRIDGE_TRANSPORT": "http", "PORT": "http"}},
		{"port out of range", map[string]string{"BRIDGE_TRANSPORT": "both", "PORT": "70000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			if _, err := Load(); err == nil {
				t.Errorf("Load() expected error for %v", tt.envVars)
			}
		})
	}
}

func TestConfig_TransportSelection(t *testing.T) {
	tests := []struct {
		transport string
		stdio     bool
		http      bool
	}{
		{TransportStdio, true, false},
		{TransportHTTP, false, true},
		{TransportBoth, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.transport, func(t *testing.T) {
			cfg := &Config{Transport: tt.transport, Port: "5174"}
			if cfg.StdioEnabled() != tt.stdio {
				t.Errorf("StdioEnabled() = %v, want %v", cfg.StdioEnabled(), tt.stdio)
			}
			if cfg.HTTPEnabled() != tt.http {
				t.Errorf("HTTPEnabled() = %v, want %v", cfg.HTTPEnabled(), tt.http)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		fallback string
		envValue string
		expected string
	}{
		{
			name:     "environment variable exists",
			key:      "BRIDGE_TEST_VAR",
			fallback: "default",
			envValue: "env_value",
			expected: "env_value",
		},
		{
			name:     "environment variable does not exist",
			key:      "BRIDGE_NONEXISTENT_VAR",
			fallback: "default",
			envValue: "",
			expected: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.envValue)

			result := getEnv(tt.key, tt.fallback)
			if result != tt.expected {
				t.Errorf("getEnv() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestAtoiOr(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"valid integer", "123", 123},
		{"invalid integer", "abc", 7},
		{"empty string", "", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := atoiOr(tt.input, 7)
			if result != tt.expected {
				t.Errorf("atoiOr() = %v, want %v", result, tt.expected)
			}
		})
	}
}
