package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/cre8tlystudio/adminctl/internal/logging"
)

const (
	DefaultBaseURL = "https://cre8tlystudio.com/api"
	envPrefix      = "ADMINCTL_"
)

// Config holds runtime settings for the admin console.
type Config struct {
	BaseURL             string
	RequestTimeout      time.Duration
	StatePath           string
	LogLevel            string
	LogFile             string
	StatusCheckInterval time.Duration
	GeoRatePerSecond    float64
	GeoBurst            int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = DefaultBaseURL
	c.RequestTimeout = 30 * time.Second
	c.StatePath = DefaultStatePath()
	c.LogLevel = "info"
	c.LogFile = ""
	c.StatusCheckInterval = 30 * time.Second
	c.GeoRatePerSecond = 2
	c.GeoBurst = 4
}

// DefaultStatePath is $XDG_CONFIG_HOME/adminctl/state.db, or the platform's
// equivalent.
func DefaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "adminctl-state.db"
	}
	return filepath.Join(dir, "adminctl", "state.db")
}

// LoadConfig builds a Config from defaults, then the config file, then
// ADMINCTL_* environment variables, then flags found in args. Later sources
// take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	flags, err := parseFlags(args)
	if err != nil {
		return nil, err
	}
	if err := parseFile(cfg, *flags.configFile); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	flags.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid base url %q", c.BaseURL))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.StatusCheckInterval <= 0 {
		errs = append(errs, errors.New("status check interval must be positive"))
	}
	if c.StatePath == "" {
		errs = append(errs, errors.New("state path must not be empty"))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.GeoRatePerSecond < 0 || c.GeoBurst < 0 {
		errs = append(errs, errors.New("geocode rate and burst must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
