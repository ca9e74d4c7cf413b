package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cre8tlystudio/adminctl/internal/buildinfo"
	"github.com/cre8tlystudio/adminctl/internal/flagx"
)

const versionTemplate = `adminctl {{.Version}}
`

// NewRootCmd builds the adminctl command tree. Without a subcommand the
// interactive shell is started.
//
// The persistent flags are read by config.LoadConfig before the tree is
// built; they are declared here so cobra accepts them and lists them in
// help output.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "adminctl",
		Short:         "Cre8tlyStudio admin console",
		Version:       fmt.Sprintf("%s (%s, %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Shell(cmd.Context())
		},
	}
	root.SetVersionTemplate(versionTemplate)

	cfg := app.config
	pf := root.PersistentFlags()
	flagx.ConfigFileFlag(pf)
	pf.StringP("addr", "a", cfg.BaseURL, "base URL of the admin API")
	pf.DurationP("timeout", "t", cfg.RequestTimeout, "request timeout")
	pf.StringP("state", "s", cfg.StatePath, `state database path (":memory:" for none)`)
	pf.StringP("log-level", "l", cfg.LogLevel, "debug|info|warn|error")

	root.AddCommand(&cobra.Command{
		Use:   "shell",
		Short: "Start the interactive console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Shell(cmd.Context())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	})

	for _, c := range app.commands() {
		root.AddCommand(cobraCommand(app, c))
	}
	return root
}

func cobraCommand(app *App, c command) *cobra.Command {
	args := cobra.RangeArgs(c.minArgs, c.maxArgs)
	if c.maxArgs < 0 {
		args = cobra.MinimumNArgs(c.minArgs)
	}
	return &cobra.Command{
		Use:     c.usage(),
		Aliases: c.aliases,
		Short:   c.short,
		Args:    args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.invoke(app.commandContext(cmd.Context(), c.name), app.isLoggedIn(), args)
		},
	}
}
