package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://localhost:8000", c.ServerBaseURL)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 500*time.Millisecond, c.ProgressInterval)
	assert.Equal(t, 5, c.ProgressStep)
	assert.Equal(t, 95, c.ProgressCap)
	assert.Equal(t, "resumefit.db", c.DatabasePath)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_NoArgsGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"server_base_url":       "http://json.example:8000",
		"online_check_interval": "10s",
		"log_level":             "debug",
	})

	cfg, err := LoadConfig([]string{"-c", path, "-a", "https://flag.example", "-d="})
	require.NoError(t, err)

	want := defaults()
	want.ServerBaseURL = "https://flag.example"
	want.OnlineCheckInterval = 10 * time.Second
	want.LogLevel = "debug"
	want.DatabasePath = ""
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{"progress_cap": 100})
	_, err := LoadConfig([]string{"-config", path})
	require.ErrorContains(t, err, "progress cap")

	_, err = LoadConfig([]string{"-i", "abc"})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-c", "/does/not/exist.json"})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := defaults()
	c.ServerBaseURL = ""
	c.ProgressStep = 0
	c.RequestTimeout = -time.Second

	err := c.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "server base url")
	assert.ErrorContains(t, err, "progress step")
	assert.ErrorContains(t, err, "request timeout")
}
