package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds runtime settings for the resumefit CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the analysis service, e.g. http://localhost:8000.
//   - RequestTimeout: upper bound for a single HTTP call, analysis included.
//   - OnlineCheckInterval: how often the client probes the health endpoint.
//   - ProgressInterval, ProgressStep, ProgressCap: shape of the synthetic
//     progress estimate shown while an analysis runs.
//   - DatabasePath: SQLite file holding the persisted session; empty keeps
//     the session in memory only.
//   - LogLevel, LogFormat: diagnostics sent to stderr.
type Config struct {
	ServerBaseURL       string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration

	ProgressInterval time.Duration
	ProgressStep     int
	ProgressCap      int

	DatabasePath string

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8000"
	c.RequestTimeout = 2 * time.Minute
	c.OnlineCheckInterval = 3 * time.Second
	c.ProgressInterval = 500 * time.Millisecond
	c.ProgressStep = 5
	c.ProgressCap = 95
	c.DatabasePath = "resumefit.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate reports settings the client cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.ServerBaseURL == "" {
		errs = append(errs, errors.New("server base url is empty"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.OnlineCheckInterval <= 0 {
		errs = append(errs, fmt.Errorf("online check interval must be positive, got %s", c.OnlineCheckInterval))
	}
	if c.ProgressInterval <= 0 {
		errs = append(errs, fmt.Errorf("progress interval must be positive, got %s", c.ProgressInterval))
	}
	if c.ProgressStep <= 0 {
		errs = append(errs, fmt.Errorf("progress step must be positive, got %d", c.ProgressStep))
	}
	if c.ProgressCap <= 0 || c.ProgressCap >= 100 {
		errs = append(errs, fmt.Errorf("progress cap must be between 1 and 99, got %d", c.ProgressCap))
	}
	return errors.Join(errs...)
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. args should not include the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
