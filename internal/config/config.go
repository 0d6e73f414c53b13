// Package config reads service settings from the environment.
package config

import "os"

// Get returns the value of the environment variable key, or
// defaultValue when it is unset or empty.
func Get(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
