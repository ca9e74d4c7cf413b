// Package config loads runtime configuration for the admin console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or --config. Files with a
//     .yaml or .yml extension are read as YAML, anything else as JSON.
//  3. ADMINCTL_* environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags).
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "30s" or
// integer nanoseconds:
//
//	{
//	  "base_url": "https://cre8tlystudio.com/api",
//	  "request_timeout": "30s",
//	  "state_path": "/home/me/.config/adminctl/state.db",
//	  "log_level": "info",
//	  "status_check_interval": "30s",
//	  "geo_rate_per_second": 2,
//	  "geo_burst": 4
//	}
package config
