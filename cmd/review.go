package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"scanrecon/internal/bootstrap"
	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/errs"
	"scanrecon/internal/usecase/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Inspect the review queue and branch conflicts",
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the review queue for a campaign",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		campaignID, _ := cmd.Flags().GetUint64("campaign")
		skuFilter, _ := cmd.Flags().GetString("sku")
		onlyDiffs, _ := cmd.Flags().GetBool("only-diffs")

		items, err := svc.Reviews.ListReview(ctx, review.ListInput{
			CampaignID: campaignID,
			SKUFilter:  skuFilter,
			OnlyDiffs:  onlyDiffs,
		})
		if err != nil {
			return errs.Wrap(err, "list review queue")
		}

		out := cmd.OutOrStdout()
		for _, item := range items {
			flag := " "
			if item.HasConsensus {
				flag = "C"
			}
			if _, err := fmt.Fprintf(out, "%s %s votes=%d ratio=%.2f branches=%s\n",
				flag, item.SKU, item.TotalVotes, item.Ratio, strings.Join(item.Branches, ",")); err != nil {
				return errs.Wrap(err, "write review output")
			}
			for _, proposal := range item.Proposals {
				decided := ""
				if proposal.Decision != nil {
					decided = " decided:" + proposal.Decision.Status
				}
				if _, err := fmt.Fprintf(out, "    %s votes=%d share=%.2f%s\n",
					proposal.Codes.Signature(), proposal.Count, proposal.Share, decided); err != nil {
					return errs.Wrap(err, "write review output")
				}
			}
		}
		return nil
	}),
}

var reviewConflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Show SKUs where branch majorities disagree",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		campaignID, _ := cmd.Flags().GetUint64("campaign")
		minBranches, _ := cmd.Flags().GetInt("min-branches")

		conflicts, err := svc.Reviews.BranchConflicts(ctx, review.ConflictsInput{
			CampaignID:  campaignID,
			MinBranches: minBranches,
		})
		if err != nil {
			return errs.Wrap(err, "list branch conflicts")
		}

		out := cmd.OutOrStdout()
		for _, conflict := range conflicts {
			flag := "ok"
			if conflict.Conflict {
				flag = "CONFLICT"
			}
			if _, err := fmt.Fprintf(out, "%s %s signatures=%d\n", flag, conflict.SKU, conflict.DistinctSignatures); err != nil {
				return errs.Wrap(err, "write conflicts output")
			}
			for _, majority := range conflict.Majorities {
				if _, err := fmt.Fprintf(out, "    %s -> %s votes=%d\n", majority.Branch, majority.Codes.Signature(), majority.Count); err != nil {
					return errs.Wrap(err, "write conflicts output")
				}
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewConflictsCmd)

	reviewListCmd.Flags().Uint64("campaign", 0, "Campaign id (default: active campaign)")
	reviewListCmd.Flags().String("sku", "", "SKU substring filter")
	reviewListCmd.Flags().Bool("only-diffs", true, "Only SKUs differing from the snapshot baseline")
	reviewConflictsCmd.Flags().Uint64("campaign", 0, "Campaign id (default: active campaign)")
	reviewConflictsCmd.Flags().Int("min-branches", 0, "Minimum reporting branches (default 2)")
}
