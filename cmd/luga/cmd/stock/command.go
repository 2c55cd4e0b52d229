// Package stock provides the stock command for the luga CLI.
package stock

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/luga/cmd/application"
	"github.com/agentstation/luga/internal/cmd/output"
	"github.com/agentstation/luga/internal/cmd/stockfile"
)

// NewCommand creates the stock command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stock FILE",
		GroupID: "core",
		Short:   "Show a stock file as normalized rows with its totals",
		Long: `Stock reads one stock file the way reconcile does and prints the
normalized table: one quantity per product code, in file order, together
with the number of products and the total quantity.

Use it to check that a file is read as expected before reconciling.`,
		Example: `  luga stock totali.xlsx
  luga stock robot.csv -o yaml
  luga stock export.dat --type text/csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaType, _ := cmd.Flags().GetString("type")
			name, _ := cmd.Flags().GetString("name")

			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			format = output.DetectFormat(string(format))

			table, err := stockfile.Load(args[0], name, mediaType)
			if err != nil {
				return err
			}

			totals := table.Totals()
			app.Logger().Debug().
				Str("file", args[0]).
				Int("products", totals.Products).
				Str("quantity", totals.Quantity.String()).
				Msg("Loaded stock file")

			if err := output.FormatStock(cmd.OutOrStdout(), format, table); err != nil {
				return err
			}
			if format == output.FormatTable {
				fmt.Fprintf(cmd.OutOrStdout(), "Prodotti: %d\nTotale prodotti: %s\n", totals.Products, totals.Quantity)
			}
			return nil
		},
	}

	cmd.Flags().String("type", "", "media type of the file (default: from extension)")
	cmd.Flags().String("name", "stock", "table name used in error messages")

	return cmd
}
