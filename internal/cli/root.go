package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/magnetgrid/pkg/buildinfo"
	"github.com/matzehuels/magnetgrid/pkg/config"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Before any subcommand runs, the config file named by --config (default
// ~/.config/magnetgrid/config.toml) is loaded, the log level is applied and
// the logger is attached to the command context.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Magnetgrid arranges form fields on a magnetic grid",
		Long: `Magnetgrid is a layout engine that places fields on a fixed-column grid.
Dropped fields snap into rows, displace their neighbors and rows compact
themselves when fields leave. The CLI plans, replays and serves layouts and
can edit them interactively in the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.showCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.compactCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.completionCommand())

	return root
}
