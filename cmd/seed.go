package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"scanrecon/internal/bootstrap"
	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/errs"
	"scanrecon/internal/usecase/masterdata"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a YAML fixture of dictionaries and master rows",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		file, _ := cmd.Flags().GetString("file")
		fixture, err := masterdata.LoadSeedFile(file)
		if err != nil {
			return errs.Wrap(err, "load seed fixture")
		}

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}
		if err := svc.MasterData.ApplySeed(ctx, fixture); err != nil {
			return errs.Wrap(err, "apply seed fixture")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "seed applied: %d master rows\n", len(fixture.Master)); err != nil {
			return errs.Wrap(err, "write seed output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().String("file", "configs/seed.yaml", "Seed fixture file")
}
