// Package flagx lets several components read their own flags out of a
// shared argument list without tripping over each other's flags.
package flagx

import (
	"io"

	"github.com/spf13/pflag"
)

// NewFlagSet returns a silent POSIX-style flag set for reading settings out
// of the full argv before the command tree runs. Flags it does not define
// are skipped, so a component can parse argv meant for someone else, but a
// set that defines every flag of the command tree parses shorthand clusters
// such as -t5s or -ahttp://x exactly the way the tree does.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	// Help and version belong to the command tree.
	fs.BoolP("help", "h", false, "")
	fs.BoolP("version", "v", false, "")
	return fs
}

// ConfigFileFlag defines -c/--config on fs. The last occurrence wins.
func ConfigFileFlag(fs *pflag.FlagSet) *string {
	return fs.StringP("config", "c", "", "path to a JSON or YAML config file")
}
