package config

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/cre8tlystudio/adminctl/internal/flagx"
)

// cliFlags holds the settings read from argv. They are applied last, on
// top of the file and environment layers.
type cliFlags struct {
	fs         *pflag.FlagSet
	configFile *string
	baseURL    string
	timeout    time.Duration
	statePath  string
	logLevel   string
}

// parseFlags reads the flags it knows about from args:
//
//	-c, --config string      JSON or YAML config file
//	-a, --addr string        base URL of the admin API
//	-t, --timeout duration   request timeout
//	-s, --state string       state database path (":memory:" for none)
//	-l, --log-level string   debug|info|warn|error
//
// Spellings follow pflag, the same as the command tree: -t 5s, -t5s,
// --timeout 5s and --timeout=5s. Other flags and positional args are left
// to the command tree.
func parseFlags(args []string) (*cliFlags, error) {
	f := &cliFlags{fs: flagx.NewFlagSet("adminctl")}
	f.configFile = flagx.ConfigFileFlag(f.fs)
	f.fs.StringVarP(&f.baseURL, "addr", "a", "", "base URL of the admin API")
	f.fs.DurationVarP(&f.timeout, "timeout", "t", 0, "request timeout")
	f.fs.StringVarP(&f.statePath, "state", "s", "", "state database path")
	f.fs.StringVarP(&f.logLevel, "log-level", "l", "", "log level")

	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// apply overlays cfg with the flags that were given.
func (f *cliFlags) apply(cfg *Config) {
	if f.fs.Changed("addr") {
		cfg.BaseURL = f.baseURL
	}
	if f.fs.Changed("timeout") {
		cfg.RequestTimeout = f.timeout
	}
	if f.fs.Changed("state") {
		cfg.StatePath = f.statePath
	}
	if f.fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
}
