package cmd

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"scanrecon/internal/bootstrap"
	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/errs"
	"scanrecon/internal/usecase/reviewconsole"
)

var consoleReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Start the interactive review console",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		campaignID, _ := cmd.Flags().GetUint64("campaign")
		operator, _ := cmd.Flags().GetString("operator")
		skuFilter, _ := cmd.Flags().GetString("sku")
		onlyDiffs, _ := cmd.Flags().GetBool("only-diffs")
		refreshInterval, _ := cmd.Flags().GetDuration("refresh-interval")
		if refreshInterval <= 0 {
			refreshInterval = 5 * time.Second
		}

		model := reviewconsole.NewReviewModel(ctx, svc.Reviews, svc.Decisions, reviewconsole.ReviewOptions{
			CampaignID:      campaignID,
			Operator:        operator,
			SKUFilter:       skuFilter,
			OnlyDiffs:       onlyDiffs,
			RefreshInterval: refreshInterval,
		})

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run review console")
		}
		return nil
	}),
}

func init() {
	consoleCmd.AddCommand(consoleReviewCmd)
	consoleReviewCmd.Flags().Uint64("campaign", 0, "Campaign id (default: active campaign)")
	consoleReviewCmd.Flags().String("operator", "", "Operator name recorded on decisions")
	consoleReviewCmd.Flags().String("sku", "", "SKU substring filter")
	consoleReviewCmd.Flags().Bool("only-diffs", true, "Only SKUs differing from the snapshot baseline")
	consoleReviewCmd.Flags().Duration("refresh-interval", 5*time.Second, "Auto refresh interval")
}
