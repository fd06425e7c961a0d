package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := parse(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.APIURL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.JournalEnabled)
	assert.Equal(t, "./taskboard.db", cfg.JournalPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestParseOverrides(t *testing.T) {
	cfg, err := parse(env.Options{Environment: map[string]string{
		"TASKBOARD_API_URL":         "http://tasks.internal:9000",
		"TASKBOARD_REQUEST_TIMEOUT": "250ms",
		"TASKBOARD_JOURNAL_ENABLED": "false",
		"TASKBOARD_LOG_FORMAT":      "json",
	}})
	require.NoError(t, err)

	assert.Equal(t, "http://tasks.internal:9000", cfg.APIURL)
	assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
	assert.False(t, cfg.JournalEnabled)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestParseInvalidDuration(t *testing.T) {
	_, err := parse(env.Options{Environment: map[string]string{
		"TASKBOARD_SHUTDOWN_TIMEOUT": "soon",
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TASKBOARD_HTTP_ADDR=:9191\n"), 0o600))

	// registered so the value set by godotenv is restored afterwards
	t.Setenv("TASKBOARD_HTTP_ADDR", "")
	require.NoError(t, os.Unsetenv("TASKBOARD_HTTP_ADDR"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9191", cfg.HTTPAddr)
}

func TestLoadEnvironmentWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TASKBOARD_LOG_LEVEL=debug\n"), 0o600))
	t.Setenv("TASKBOARD_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadMissingFileIsIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{LogLevel: "warn", LogFormat: "json"}

	logger, err := cfg.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "task_id", "1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "1", line["task_id"])
}

func TestNewLoggerRejectsBadSettings(t *testing.T) {
	_, err := Config{LogLevel: "loud", LogFormat: "text"}.NewLogger(&bytes.Buffer{})
	require.Error(t, err)

	_, err = Config{LogLevel: "info", LogFormat: "xml"}.NewLogger(&bytes.Buffer{})
	require.ErrorIs(t, err, ErrLogFormat)
}
