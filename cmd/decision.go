package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"scanrecon/internal/bootstrap"
	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/domain/catalog"
	"scanrecon/internal/errs"
	"scanrecon/internal/usecase/decision"
)

var decisionCmd = &cobra.Command{
	Use:   "decision",
	Short: "Record and manage catalog update decisions",
}

var decisionDecideCmd = &cobra.Command{
	Use:   "decide <sku>",
	Short: "Accept or reject a proposal for one SKU",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		campaignID, _ := cmd.Flags().GetUint64("campaign")
		category, _ := cmd.Flags().GetString("category")
		typeCode, _ := cmd.Flags().GetString("type")
		classification, _ := cmd.Flags().GetString("classification")
		verdict, _ := cmd.Flags().GetString("verdict")
		by, _ := cmd.Flags().GetString("by")
		applyNow, _ := cmd.Flags().GetBool("apply")
		notes, _ := cmd.Flags().GetString("notes")

		created, err := svc.Decisions.Decide(ctx, decision.DecideInput{
			CampaignID: campaignID,
			RawSKU:     cmd.Flags().Args()[0],
			Proposal: catalog.CodeSet{
				Category:       category,
				Type:           typeCode,
				Classification: classification,
			},
			Verdict:   verdict,
			DecidedBy: by,
			ApplyNow:  applyNow,
			Notes:     notes,
		})
		if err != nil {
			return errs.Wrap(err, "record decision")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "decision %d recorded: %s %s\n", created.DecisionID, created.SKU, created.Status); err != nil {
			return errs.Wrap(err, "write decision output")
		}
		return nil
	}),
}

var decisionApplyCmd = &cobra.Command{
	Use:   "apply <decision-id>...",
	Short: "Apply decisions to the master catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		ids := make([]uint64, 0, len(cmd.Flags().Args()))
		for _, arg := range cmd.Flags().Args() {
			id, err := parseID(arg)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}

		by, _ := cmd.Flags().GetString("by")
		applied, err := svc.Decisions.ApplyBatch(ctx, decision.ApplyBatchInput{DecisionIDs: ids, DecidedBy: by})
		if err != nil {
			return errs.Wrap(err, "apply decisions")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d decisions applied\n", applied); err != nil {
			return errs.Wrap(err, "write apply output")
		}
		return nil
	}),
}

var decisionUndoCmd = &cobra.Command{
	Use:   "undo <decision-id>",
	Short: "Delete a pending or rejected decision",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		id, err := parseID(cmd.Flags().Args()[0])
		if err != nil {
			return err
		}
		if err := svc.Decisions.Undo(ctx, id); err != nil {
			return errs.Wrap(err, "undo decision")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "decision %d undone\n", id); err != nil {
			return errs.Wrap(err, "write undo output")
		}
		return nil
	}),
}

var decisionRevertCmd = &cobra.Command{
	Use:   "revert <decision-id>",
	Short: "Create a compensating pending decision for an applied one",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		id, err := parseID(cmd.Flags().Args()[0])
		if err != nil {
			return err
		}
		by, _ := cmd.Flags().GetString("by")

		created, err := svc.Decisions.Revert(ctx, id, by)
		if err != nil {
			return errs.Wrap(err, "revert decision")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "revert decision %d created for sku %s\n", created.DecisionID, created.SKU); err != nil {
			return errs.Wrap(err, "write revert output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(decisionCmd)
	decisionCmd.AddCommand(decisionDecideCmd)
	decisionCmd.AddCommand(decisionApplyCmd)
	decisionCmd.AddCommand(decisionUndoCmd)
	decisionCmd.AddCommand(decisionRevertCmd)

	decisionDecideCmd.Flags().Uint64("campaign", 0, "Campaign id")
	decisionDecideCmd.Flags().String("category", "", "Proposed category code")
	decisionDecideCmd.Flags().String("type", "", "Proposed type code")
	decisionDecideCmd.Flags().String("classification", "", "Proposed classification code")
	decisionDecideCmd.Flags().String("verdict", "accept", "accept or reject")
	decisionDecideCmd.Flags().String("by", "", "Operator name")
	decisionDecideCmd.Flags().Bool("apply", false, "Apply the accepted proposal immediately")
	decisionDecideCmd.Flags().String("notes", "", "Free-form notes")
	decisionApplyCmd.Flags().String("by", "", "Operator name")
	decisionRevertCmd.Flags().String("by", "", "Operator name")
}
