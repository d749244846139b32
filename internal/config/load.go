package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"optbench/internal/harness"
	"optbench/internal/results"
)

// Load initializes the configuration from file and environment variables.
// It starts from a clean viper state. A missing config file is not an
// error; defaults apply.
func Load(cfgFile string) error {
	viper.Reset()

	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("optbench")
	}

	viper.SetEnvPrefix("OPTBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	return nil
}

// SetDefaults registers the default values of every known key.
func SetDefaults() {
	viper.SetDefault("store.type", "json")
	viper.SetDefault("store.path", ".optbench/history.json")
	viper.SetDefault("verbose", false)
	viper.SetDefault("log_file", "")
	viper.SetDefault("metrics_file", "")
	viper.SetDefault("compare.threshold", 10.0)
}

// StoreConfig returns the configured history backend.
func StoreConfig() results.StoreConfig {
	return results.StoreConfig{
		Type: viper.GetString("store.type"),
		Path: viper.GetString("store.path"),
	}
}

// SuiteParams applies suites.<name>.iterations and suites.<name>.init
// overrides to the compiled-in defaults of a suite.
func SuiteParams(name string, defaults harness.Params) harness.Params {
	p := defaults
	if key := "suites." + name + ".iterations"; viper.IsSet(key) {
		if n := viper.GetInt(key); n > 0 {
			p.Iterations = n
		}
	}
	if key := "suites." + name + ".init"; viper.IsSet(key) {
		p.Init = viper.GetFloat64(key)
	}
	return p
}
