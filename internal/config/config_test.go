package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/hotreg/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hotreg.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Registry.Capacity)
	assert.Equal(t, 16*time.Millisecond, cfg.Frame.TickRate)
	assert.Equal(t, "memory", cfg.Reload.Store)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[registry]
capacity = 48

[frame]
tick_rate = "5ms"
reload_every = 10

[reload]
store = "redis"
redis_addr = "cache:6379"
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 48, cfg.Registry.Capacity)
	assert.Equal(t, 5*time.Millisecond, cfg.Frame.TickRate)
	assert.Equal(t, 10, cfg.Frame.ReloadEvery)
	assert.Equal(t, 600, cfg.Frame.Frames)
	assert.Equal(t, "redis", cfg.Reload.Store)
	assert.Equal(t, "cache:6379", cfg.Reload.RedisAddr)
	assert.Equal(t, "hotreg", cfg.Reload.KeyPrefix)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"capacity": "[registry]\ncapacity = 0\n",
		"store":    "[reload]\nstore = \"disk\"\n",
		"level":    "[logging]\nlevel = \"loud\"\n",
		"syntax":   "[registry\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := config.LoggingConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Str("component", "Lamp").Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"component":"Lamp"`)

	_, err = config.LoggingConfig{Level: "nope"}.NewLogger(&buf)
	assert.Error(t, err)
}
