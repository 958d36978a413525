// Package config loads runtime configuration for the HumDaddy client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend API
//	-t int      request timeout (seconds)
//	-d string   data directory for the local store
//	-l string   log format: json or text
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "10s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.humdaddy.app",
//	  "request_timeout": "10s",
//	  "debounce_window": "1s",
//	  "saved_revert_delay": "1500ms",
//	  "error_revert_delay": "4s",
//	  "min_payout_cents": 10000,
//	  "data_dir": "humdaddy",
//	  "deep_link_scheme": "humdaddy",
//	  "deep_link_https_prefix": "https://humdaddy.app/",
//	  "log_format": "json"
//	}
//
// A base URL that does not parse as scheme://host is replaced with the
// default rather than propagated into the HTTP client.
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
