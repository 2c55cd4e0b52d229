package app

import (
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/agentstation/luga/cmd/luga/cmd/completion"
	"github.com/agentstation/luga/cmd/luga/cmd/dashboard"
	"github.com/agentstation/luga/cmd/luga/cmd/reconcile"
	"github.com/agentstation/luga/cmd/luga/cmd/stock"
)

// CreateReconcileCommand creates the reconcile command with app dependencies.
func (a *App) CreateReconcileCommand() *cobra.Command {
	return reconcile.NewCommand(a)
}

// CreateStockCommand creates the stock command with app dependencies.
func (a *App) CreateStockCommand() *cobra.Command {
	return stock.NewCommand(a)
}

// CreateDashboardCommand creates the dashboard command with app dependencies.
func (a *App) CreateDashboardCommand() *cobra.Command {
	return dashboard.NewCommand(a)
}

// CreateCompletionCommand creates the shell completion command.
func (a *App) CreateCompletionCommand() *cobra.Command {
	return completion.NewCommand()
}

// CreateManCommand creates the hidden man page generator.
func (a *App) CreateManCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  "Generate man page",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			header := &doc.GenManHeader{
				Title:   "LUGA",
				Section: "1",
				Source:  "luga " + a.version,
				Manual:  "luga Manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		GroupID: "management",
		Short:   "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("luga %s\n", a.version)
			if a.Config().Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
				cmd.Printf("  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}
