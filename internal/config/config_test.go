package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.Viper())
}

func TestLoaderLoad(t *testing.T) {
	t.Run("defaults for missing file", func(t *testing.T) {
		cfg, err := NewLoader().Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "generated", cfg.Output)
		assert.Equal(t, 0, cfg.Workers)
		assert.True(t, cfg.Format)
		assert.Equal(t, "localhost:4000", cfg.Preview.Addr)
		assert.Empty(t, cfg.Verify.DSN)
	})

	t.Run("loads config from file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "dsg.yaml")
		content := `
output: out
workers: 4
format: false
module: example.com/shop
preview:
  addr: ":9000"
verify:
  dsn: "file:shop.db"
`
		require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))

		cfg, err := NewLoader().Load(configFile)
		require.NoError(t, err)
		assert.Equal(t, "out", cfg.Output)
		assert.Equal(t, 4, cfg.Workers)
		assert.False(t, cfg.Format)
		assert.Equal(t, "example.com/shop", cfg.Module)
		assert.Equal(t, ":9000", cfg.Preview.Addr)
		assert.Equal(t, "file:shop.db", cfg.Verify.DSN)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "dsg.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("output: out\n"), 0o644))
		t.Setenv("DSG_OUTPUT", "env-out")
		t.Setenv("DSG_PREVIEW_ADDR", ":7000")

		cfg, err := NewLoader().Load(configFile)
		require.NoError(t, err)
		assert.Equal(t, "env-out", cfg.Output)
		assert.Equal(t, ":7000", cfg.Preview.Addr)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "dsg.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("output: [\n"), 0o644))
		_, err := NewLoader().Load(configFile)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading config file")
	})

	t.Run("negative workers", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "dsg.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("workers: -1\n"), 0o644))
		_, err := NewLoader().Load(configFile)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "workers")
	})
}
