// Package completion provides the shell completion command.
package completion

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/luga/internal/cmd/completion"
)

// NewCommand creates the completion command. It replaces cobra's default
// so scripts can also be installed and removed.
func NewCommand() *cobra.Command {
	var install, uninstall bool

	cmd := &cobra.Command{
		Use:       "completion SHELL",
		GroupID:   "management",
		Short:     "Generate or install shell completions",
		ValidArgs: completion.Shells,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Long: `Generate the autocompletion script for luga.

To load completions in your current bash session:

  source <(luga completion bash)

To install them permanently:

  luga completion zsh --install`,
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := args[0]
			switch {
			case install:
				return completion.Install(cmd.Root(), shell, cmd.ErrOrStderr())
			case uninstall:
				return completion.Uninstall(shell, cmd.ErrOrStderr())
			default:
				return completion.Generate(cmd.Root(), shell, cmd.OutOrStdout())
			}
		},
	}

	cmd.Flags().BoolVar(&install, "install", false, "Install the script for the shell")
	cmd.Flags().BoolVar(&uninstall, "uninstall", false, "Remove an installed script")
	cmd.MarkFlagsMutuallyExclusive("install", "uninstall")

	return cmd
}
