// Package reconcile provides the reconcile command for the luga CLI.
package reconcile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/luga/cmd/application"
	"github.com/agentstation/luga/internal/cmd/emoji"
	"github.com/agentstation/luga/internal/cmd/output"
	"github.com/agentstation/luga/internal/cmd/stockfile"
	"github.com/agentstation/luga/pkg/constants"
	"github.com/agentstation/luga/pkg/errors"
	"github.com/agentstation/luga/pkg/export"
	"github.com/agentstation/luga/pkg/reconcile"
)

// NewCommand creates the reconcile command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reconcile TOTAL ROBOT",
		GroupID: "core",
		Aliases: []string{"diff"},
		Short:   "Compute the exposed stock from a total and a robot file",
		Long: `Reconcile reads the total stock file and the robot stock file, and
computes for every product of the total file how much stock is exposed
(held outside the robot).

Products missing from the robot file are reported as unmatched. Products
only present in the robot file are ignored.

By default only exposed rows are listed; use --all to list every product.
With --export the full result is written as a semicolon separated file
with unmatched quantities replaced by "non_trovato".`,
		Example: `  luga reconcile totali.xlsx robot.csv
  luga reconcile totali.xlsx robot.csv --all -o json
  luga reconcile totali.xlsx robot.csv --export result_differences.csv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, args[0], args[1])
		},
	}

	cmd.Flags().String("type-total", "", "media type of the total file (default: from extension)")
	cmd.Flags().String("type-robot", "", "media type of the robot file (default: from extension)")
	cmd.Flags().Bool("all", false, "list every product, not only exposed ones")
	cmd.Flags().String("export", "", "write the reconciliation to this file ("+constants.ExportFileName+" layout)")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, totalPath, robotPath string) error {
	logger := app.Logger()

	typeTotal, _ := cmd.Flags().GetString("type-total")
	typeRobot, _ := cmd.Flags().GetString("type-robot")
	all, _ := cmd.Flags().GetBool("all")
	exportPath, _ := cmd.Flags().GetString("export")

	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	format = output.DetectFormat(string(format))

	// Both files are normalized before anything is computed
	total, err := stockfile.Load(totalPath, constants.TotalTable, typeTotal)
	if err != nil {
		return fmt.Errorf("%s file: %w", constants.TotalTable, err)
	}
	logger.Debug().Str("file", totalPath).Int("products", total.Len()).Msg("Loaded total stock")

	robot, err := stockfile.Load(robotPath, constants.RobotTable, typeRobot)
	if err != nil {
		return fmt.Errorf("%s file: %w", constants.RobotTable, err)
	}
	logger.Debug().Str("file", robotPath).Int("products", robot.Len()).Msg("Loaded robot stock")

	result, err := reconcile.Reconcile(total, robot)
	if err != nil {
		return err
	}

	summary := reconcile.Summarize(result)
	logger.Info().
		Int("products", summary.TotalProducts).
		Int("fully_accounted", summary.FullyAccounted).
		Str("exposed_quantity", summary.ExposedQuantity.String()).
		Int("unmatched", summary.Unmatched).
		Msg("Reconciliation computed")

	if err := output.FormatReport(cmd.OutOrStdout(), format, output.NewReport(total, robot, result, all)); err != nil {
		return err
	}

	if exportPath == "" {
		return nil
	}
	if err := writeExport(exportPath, result); err != nil {
		return err
	}
	if format == output.FormatTable {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s Export written to %s\n", emoji.Success, exportPath)
	}
	logger.Info().Str("path", exportPath).Int("rows", result.Len()).Msg("Export written")
	return nil
}

// writeExport writes the export next to path and moves it into place, so a
// failed export leaves no partial file and keeps any previous one.
func writeExport(path string, result *reconcile.Result) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".luga-export-*.csv")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	tmpPath := tmp.Name()

	if err := export.WriteCSV(tmp, result); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("close", path, err)
	}
	if err := os.Chmod(tmpPath, constants.FilePermissions); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("chmod", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("move", path, err)
	}
	return nil
}
