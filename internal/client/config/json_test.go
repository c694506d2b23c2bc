package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"server_base_url":       "https://api.example",
		"request_timeout":       "45s",
		"online_check_interval": "10s",
		"progress_interval":     int64(250 * time.Millisecond),
		"progress_step":         2,
		"progress_cap":          90,
		"database_path":         "/tmp/s.db",
		"log_level":             "debug",
		"log_format":            "json",
	})

	t.Run("loads every field", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, parseJson(cfg, []string{"-config", full}))

		assert.Equal(t, &Config{
			ServerBaseURL:       "https://api.example",
			RequestTimeout:      45 * time.Second,
			OnlineCheckInterval: 10 * time.Second,
			ProgressInterval:    250 * time.Millisecond,
			ProgressStep:        2,
			ProgressCap:         90,
			DatabasePath:        "/tmp/s.db",
			LogLevel:            "debug",
			LogFormat:           "json",
		}, cfg)
	})

	t.Run("absent keys keep earlier values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"log_level": "warn"})

		cfg := defaults()
		require.NoError(t, parseJson(cfg, []string{"-c", partial}))

		want := defaults()
		want.LogLevel = "warn"
		assert.Equal(t, want, cfg)
	})

	t.Run("no flag, no changes", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseJson(cfg, []string{"-a", "http://x"}))
		assert.Equal(t, defaults(), cfg)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		require.Error(t, parseJson(&Config{}, []string{"-config", bad}))
	})
}
