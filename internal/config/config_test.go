package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/space-shooter/internal/persist"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shooter.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "2222", cfg.SSH.Port)
	assert.Equal(t, 15*time.Second, cfg.SSH.ShutdownTimeout)
	assert.Equal(t, "8080", cfg.Web.Port)
	assert.False(t, cfg.Web.Embedded)
	assert.Equal(t, persist.BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[ssh]
port = "2300"
shutdown_timeout = "5s"

[storage]
backend = "postgres"
dsn = "postgres://shooter@localhost/shooter"
migrate = true

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "2300", cfg.SSH.Port)
	assert.Equal(t, "::", cfg.SSH.Host, "unset keys keep defaults")
	assert.Equal(t, 5*time.Second, cfg.SSH.ShutdownTimeout)
	assert.Equal(t, persist.Config{
		Backend: persist.BackendPostgres,
		Path:    "data/shooter.yaml",
		DSN:     "postgres://shooter@localhost/shooter",
		Migrate: true,
	}, cfg.Storage)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[web]\nport = \"9000\"\n")
	t.Setenv("WEB_PORT", "9100")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("WEB_EMBEDDED", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Web.Port)
	assert.True(t, cfg.Web.Embedded)
	assert.Equal(t, persist.BackendMemory, cfg.Storage.Backend)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "read config")

	_, err = Load(writeConfig(t, "[ssh\nport = 1"))
	assert.ErrorContains(t, err, "parse config")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SHOOTER_CONFIG", writeConfig(t, "[ssh]\nport = \"2400\"\n"))

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "2400", cfg.SSH.Port)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("SHOOTER_TEST_VALUE", "set")

	assert.Equal(t, "set", GetEnv("SHOOTER_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("SHOOTER_TEST_UNSET", "fallback"))

	t.Setenv("SHOOTER_TEST_EMPTY", "")
	assert.Equal(t, "fallback", GetEnv("SHOOTER_TEST_EMPTY", "fallback"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "WARN", Format: "json"}.NewLogger(&buf, "test")

	assert.Equal(t, log.WarnLevel, logger.GetLevel())

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"key":"value"`)

	fallback := LogConfig{Level: "loud"}.NewLogger(&buf, "")
	assert.Equal(t, log.InfoLevel, fallback.GetLevel())
}
