package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no config.yaml present

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)

	assert.Equal(t, 0.8, cfg.Index.HyperscalerWeight)
	assert.Equal(t, 0.2, cfg.Index.NeocloudWeight)
	assert.Equal(t, 0.25, cfg.Index.DeviationThreshold)
	assert.Equal(t, 0.50, cfg.Index.PriceFloorUSD)
	assert.Equal(t, 50.0, cfg.Index.PriceCeilingUSD)
	assert.Equal(t, 2, cfg.Index.HistoryDepth)

	assert.Equal(t, 30, cfg.Observe.ProviderTimeoutSecs)
	assert.Equal(t, 3, cfg.Observe.MaxRetries)
	assert.False(t, cfg.Observe.DisableLive)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("H200_STORE_DRIVER", "postgres")
	t.Setenv("H200_INDEX_PRICE_CEILING_USD", "75.5")
	t.Setenv("H200_OBSERVE_DISABLE_LIVE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 75.5, cfg.Index.PriceCeilingUSD)
	assert.True(t, cfg.Observe.DisableLive)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := []byte(`
store:
  driver: postgres
  database_url: postgres://localhost/h200
index:
  hyperscaler_weight: 0.7
  neocloud_weight: 0.3
log:
  level: debug
  format: console
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/h200", cfg.Store.DatabaseURL)
	assert.Equal(t, 0.7, cfg.Index.HyperscalerWeight)
	assert.Equal(t, 0.3, cfg.Index.NeocloudWeight)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, 50.0, cfg.Index.PriceCeilingUSD)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	require.Error(t, InitLogger(LogConfig{Level: "verbose", Format: "json"}))
}
