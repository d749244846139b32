package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optbench/internal/harness"
)

func TestLoad(t *testing.T) {
	defer viper.Reset()

	t.Run("Defaults without a config file", func(t *testing.T) {
		viper.Reset()
		t.Chdir(t.TempDir())

		require.NoError(t, Load(""))
		assert.Equal(t, "json", viper.GetString("store.type"))
		assert.Equal(t, ".optbench/history.json", viper.GetString("store.path"))
		assert.Equal(t, 10.0, viper.GetFloat64("compare.threshold"))
		assert.False(t, viper.GetBool("verbose"))

		_, err := os.Stat("optbench.yaml")
		assert.True(t, os.IsNotExist(err), "no config file should be written")
	})

	t.Run("Load From Env", func(t *testing.T) {
		viper.Reset()
		t.Chdir(t.TempDir())
		t.Setenv("OPTBENCH_STORE_TYPE", "sqlite")

		require.NoError(t, Load(""))
		assert.Equal(t, "sqlite", viper.GetString("store.type"))
		assert.Equal(t, "sqlite", StoreConfig().Type)
	})

	t.Run("Explicit file", func(t *testing.T) {
		viper.Reset()
		path := filepath.Join(t.TempDir(), "bench.yaml")
		content := "store:\n  type: sqlite\n  path: runs.db\nsuites:\n  minmax:\n    iterations: 7\n    init: 2.5\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		require.NoError(t, Load(path))
		assert.Equal(t, "runs.db", StoreConfig().Path)

		p := SuiteParams("minmax", harness.Params{Iterations: 20000, Init: 1})
		assert.Equal(t, harness.Params{Iterations: 7, Init: 2.5}, p)

		p = SuiteParams("pointers", harness.Params{Iterations: 20000, Init: 3})
		assert.Equal(t, harness.Params{Iterations: 20000, Init: 3}, p)
	})

	t.Run("Missing explicit file", func(t *testing.T) {
		viper.Reset()
		err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestSuiteParams_IgnoresNonPositiveIterations(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("suites.vectorize.iterations", 0)
	p := SuiteParams("vectorize", harness.Params{Iterations: 20000, Init: 1})
	assert.Equal(t, 20000, p.Iterations)
}
