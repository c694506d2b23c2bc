// Package config loads runtime configuration for the resumefit CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the analysis service
//	-i int      online status check interval (seconds)
//	-t int      request timeout (seconds)
//	-d string   SQLite database path
//	-l string   log level
//	-f string   log format (text or json)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://localhost:8000",
//	  "request_timeout": "2m",
//	  "online_check_interval": "3s",
//	  "progress_interval": "500ms",
//	  "progress_step": 5,
//	  "progress_cap": 95,
//	  "database_path": "resumefit.db",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
