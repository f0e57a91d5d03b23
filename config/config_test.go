package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "CORS_ALLOWED_ORIGINS", "DB_PATH", "LOG_LEVEL", "LOG_FORMAT",
		"METRICS_ENABLED", "RECOMPUTE_ENABLED", "RECOMPUTE_INTERVAL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
server:
  port: 9090
  allowed_origins: ["https://league.example.com"]
database:
  path: /var/lib/umpires.db
log:
  level: debug
  format: json
recompute:
  enabled: true
  interval: 15m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://league.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "/var/lib/umpires.db", cfg.Database.Path)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Recompute.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Recompute.Interval)
	// Untouched sections keep their defaults.
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "server:\n  port: 9090\n")
	t.Setenv("PORT", "7070")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":       "server: [",
		"bad port":       "server:\n  port: 70000\n",
		"bad log level":  "log:\n  level: loud\n",
		"tight interval": "recompute:\n  enabled: true\n  interval: 5s\n",
	}
	clearEnv(t)
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, body))
			assert.Error(t, err)
		})
	}

	t.Run("bad env duration", func(t *testing.T) {
		t.Setenv("RECOMPUTE_INTERVAL", "soon")
		_, err := Load("")
		assert.ErrorContains(t, err, "RECOMPUTE_INTERVAL")
	})
}

func TestLogConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("dropped")
	logger.Warn("kept", "game_id", "g-1")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"msg":"kept"`)
	assert.Contains(t, out, `"game_id":"g-1"`)
}
