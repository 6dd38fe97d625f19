package cli

import (
	"github.com/spf13/cobra"
)

func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for magnetgrid.

To load completions:

Bash:
  $ source <(magnetgrid completion bash)

  # Once per session is enough; to install for good:
  # Linux:
  $ magnetgrid completion bash > /etc/bash_completion.d/magnetgrid
  # macOS:
  $ magnetgrid completion bash > $(brew --prefix)/etc/bash_completion.d/magnetgrid

Zsh (compinit must be enabled):
  $ magnetgrid completion zsh > "${fpath[1]}/_magnetgrid"
  # then start a new shell.

Fish:
  $ magnetgrid completion fish | source
  $ magnetgrid completion fish > ~/.config/fish/completions/magnetgrid.fish

PowerShell:
  PS> magnetgrid completion powershell | Out-String | Invoke-Expression

  PS> magnetgrid completion powershell > magnetgrid.ps1   # source from $PROFILE
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// Completion must not depend on a readable config file.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(c.out, true)
			case "zsh":
				return root.GenZshCompletion(c.out)
			case "fish":
				return root.GenFishCompletion(c.out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(c.out)
			}
			return nil
		},
	}

	return cmd
}
