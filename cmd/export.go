package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"scanrecon/internal/bootstrap"
	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/errs"
	"scanrecon/internal/usecase/decision"
	"scanrecon/internal/usecase/masterdata"
	"scanrecon/internal/usecase/review"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export catalogs, decision logs and field update files",
}

var exportMasterCmd = &cobra.Command{
	Use:   "master <out.csv>",
	Short: "Export the master catalog as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		rows, err := svc.MasterData.ExportMasterCSV(ctx)
		if err != nil {
			return errs.Wrap(err, "export master csv")
		}
		return writeExportCSV(cmd, cmd.Flags().Args()[0], rows)
	}),
}

var exportDecisionsCmd = &cobra.Command{
	Use:   "decisions <out.csv>",
	Short: "Export a campaign's decision log as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		campaignID, _ := cmd.Flags().GetUint64("campaign")
		rows, err := svc.Decisions.ExportCSV(ctx, campaignID)
		if err != nil {
			return errs.Wrap(err, "export decisions csv")
		}
		return writeExportCSV(cmd, cmd.Flags().Args()[0], rows)
	}),
}

var exportDiscrepanciesCmd = &cobra.Command{
	Use:   "discrepancies <out.csv>",
	Short: "Export the discrepancy audit as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		campaignID, _ := cmd.Flags().GetUint64("campaign")
		minVotes, _ := cmd.Flags().GetInt("min-votes")
		rows, err := svc.Reviews.DiscrepanciesCSV(ctx, review.DiscrepanciesInput{
			CampaignID: campaignID,
			MinVotes:   minVotes,
		})
		if err != nil {
			return errs.Wrap(err, "export discrepancies csv")
		}
		return writeExportCSV(cmd, cmd.Flags().Args()[0], rows)
	}),
}

var exportUpdatesCmd = &cobra.Command{
	Use:   "updates <field> <out.txt>",
	Short: "Export one field's applied updates as SKU<TAB>code lines",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		args := cmd.Flags().Args()
		campaignID, _ := cmd.Flags().GetUint64("campaign")
		status, _ := cmd.Flags().GetString("status")
		includeArchived, _ := cmd.Flags().GetBool("include-archived")

		body, err := svc.Decisions.ExportFieldTXT(ctx, decision.FieldExportInput{
			CampaignID:      campaignID,
			Field:           args[0],
			Status:          status,
			IncludeArchived: includeArchived,
		})
		if err != nil {
			return errs.Wrap(err, "export field updates")
		}

		if err := os.WriteFile(args[1], []byte(body), 0o644); err != nil {
			return errs.Wrapf(err, "write %q", args[1])
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "exported %s updates to %s\n", args[0], args[1]); err != nil {
			return errs.Wrap(err, "write export output")
		}
		return nil
	}),
}

func writeExportCSV(cmd *cobra.Command, path string, rows [][]string) error {
	data, err := masterdata.ToCSV(rows)
	if err != nil {
		return errs.Wrap(err, "render csv")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrapf(err, "write %q", path)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows to %s\n", len(rows)-1, path); err != nil {
		return errs.Wrap(err, "write export output")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportMasterCmd)
	exportCmd.AddCommand(exportDecisionsCmd)
	exportCmd.AddCommand(exportDiscrepanciesCmd)
	exportCmd.AddCommand(exportUpdatesCmd)

	exportDecisionsCmd.Flags().Uint64("campaign", 0, "Campaign id")
	exportDiscrepanciesCmd.Flags().Uint64("campaign", 0, "Campaign id (default: active campaign)")
	exportDiscrepanciesCmd.Flags().Int("min-votes", 0, "Minimum votes for the leading proposal")
	exportUpdatesCmd.Flags().Uint64("campaign", 0, "Campaign id")
	exportUpdatesCmd.Flags().String("status", "", "Decision status filter (applied|pending|rejected|all)")
	exportUpdatesCmd.Flags().Bool("include-archived", false, "Include archived decisions")
}
