package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cre8tlystudio/adminctl/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for decoding the config file. Zero
// values leave the corresponding setting untouched. Durations accept
// strings like "30s" or integer nanoseconds.
type FileConfig struct {
	BaseURL             string         `json:"base_url" yaml:"base_url"`
	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	StatePath           string         `json:"state_path" yaml:"state_path"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
	LogFile             string         `json:"log_file" yaml:"log_file"`
	StatusCheckInterval timex.Duration `json:"status_check_interval" yaml:"status_check_interval"`
	GeoRatePerSecond    float64        `json:"geo_rate_per_second" yaml:"geo_rate_per_second"`
	GeoBurst            int            `json:"geo_burst" yaml:"geo_burst"`
}

// parseFile overlays cfg with the file at path, if one is given. Files
// ending in .yaml or .yml are YAML, anything else JSON.
func parseFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc FileConfig) apply(cfg *Config) {
	setString(&cfg.BaseURL, fc.BaseURL)
	setDuration(&cfg.RequestTimeout, fc.RequestTimeout.Duration)
	setString(&cfg.StatePath, fc.StatePath)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFile, fc.LogFile)
	setDuration(&cfg.StatusCheckInterval, fc.StatusCheckInterval.Duration)
	if fc.GeoRatePerSecond != 0 {
		cfg.GeoRatePerSecond = fc.GeoRatePerSecond
	}
	if fc.GeoBurst != 0 {
		cfg.GeoBurst = fc.GeoBurst
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
