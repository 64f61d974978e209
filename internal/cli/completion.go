package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for grantline.

To load completions:

Bash:
  $ source <(grantline completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ grantline completion bash > /etc/bash_completion.d/grantline
  # macOS:
  $ grantline completion bash > $(brew --prefix)/etc/bash_completion.d/grantline

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ grantline completion zsh > "${fpath[1]}/_grantline"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ grantline completion fish | source

  # To load completions for each session, execute once:
  $ grantline completion fish > ~/.config/fish/completions/grantline.fish

PowerShell:
  PS> grantline completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> grantline completion powershell > grantline.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
