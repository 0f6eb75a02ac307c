// Package config loads the process configuration: built-in defaults, an
// optional TOML file and environment overrides.
package config

import "os"

// GetEnv returns the value of the environment variable named by key, or
// fallback if the variable is unset or empty.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
