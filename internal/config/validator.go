package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var storeTypes = map[string]bool{
	"json":       true,
	"file":       true,
	"sqlite":     true,
	"sqlite3":    true,
	"postgres":   true,
	"postgresql": true,
}

// Validate checks the loaded configuration and reports every problem at once.
func Validate() error {
	var errors []string

	if viper.IsSet("store.type") {
		st := strings.ToLower(viper.GetString("store.type"))
		if !storeTypes[st] {
			errors = append(errors, fmt.Sprintf("store.type must be one of json, sqlite, postgres, got: %q", st))
		}
		if strings.HasPrefix(st, "postgres") && viper.GetString("store.path") == "" {
			errors = append(errors, "store.path must hold a connection string for postgres")
		}
	}

	if viper.IsSet("compare.threshold") {
		threshold := viper.GetFloat64("compare.threshold")
		if threshold < 0 {
			errors = append(errors, fmt.Sprintf("compare.threshold must not be negative, got: %v", threshold))
		}
	}

	// suites.<name>.iterations overrides
	for name := range viper.GetStringMap("suites") {
		key := "suites." + name + ".iterations"
		if viper.IsSet(key) {
			if n := viper.GetInt(key); n <= 0 {
				errors = append(errors, fmt.Sprintf("%s must be positive, got: %d", key, n))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(errors, "\n  "))
	}

	return nil
}
