package config

import (
	"fmt"
	"strconv"
	"time"
)

// parseEnv overlays cfg with ADMINCTL_* variables found through lookup.
//
//	ADMINCTL_BASE_URL         base URL of the admin API
//	ADMINCTL_TIMEOUT          request timeout ("30s")
//	ADMINCTL_STATE            state database path
//	ADMINCTL_LOG_LEVEL        debug|info|warn|error
//	ADMINCTL_LOG_FILE         log file, stderr when empty
//	ADMINCTL_STATUS_INTERVAL  connectivity check interval ("30s")
//	ADMINCTL_GEO_RATE         geocode lookups per second
//	ADMINCTL_GEO_BURST        geocode burst size
func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(envPrefix + name)
		return v, ok && v != ""
	}

	if v, ok := get("BASE_URL"); ok {
		cfg.BaseURL = v
	}
	if v, ok := get("TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", envPrefix, err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := get("STATE"); ok {
		cfg.StatePath = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := get("LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := get("STATUS_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sSTATUS_INTERVAL: %w", envPrefix, err)
		}
		cfg.StatusCheckInterval = d
	}
	if v, ok := get("GEO_RATE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sGEO_RATE: %w", envPrefix, err)
		}
		cfg.GeoRatePerSecond = f
	}
	if v, ok := get("GEO_BURST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sGEO_BURST: %w", envPrefix, err)
		}
		cfg.GeoBurst = n
	}
	return nil
}
