package cmd

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"scanrecon/internal/bootstrap"
	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/errs"
	"scanrecon/internal/usecase/campaign"
)

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Manage scan campaigns",
}

var campaignListCmd = &cobra.Command{
	Use:   "list",
	Short: "List campaigns",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		campaigns, err := svc.Campaigns.List(ctx)
		if err != nil {
			return errs.Wrap(err, "list campaigns")
		}

		for _, c := range campaigns {
			marker := " "
			if c.Active {
				marker = "*"
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %d %s (%s .. %s)\n", marker, c.CampaignID, c.Name, c.StartsAt, c.EndsAt); err != nil {
				return errs.Wrap(err, "write campaign list output")
			}
		}
		return nil
	}),
}

var campaignCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a campaign and snapshot the master catalog",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		var input campaign.CreateInput
		if fromFile, _ := cmd.Flags().GetString("from-file"); fromFile != "" {
			loaded, err := campaign.LoadDefinition(fromFile)
			if err != nil {
				return errs.Wrap(err, "load campaign definition")
			}
			input = loaded
		} else {
			input.Name, _ = cmd.Flags().GetString("name")
			input.StartsAt, _ = cmd.Flags().GetString("starts-at")
			input.EndsAt, _ = cmd.Flags().GetString("ends-at")
			input.CategoryTarget, _ = cmd.Flags().GetString("category")
			input.TypeTarget, _ = cmd.Flags().GetString("type")
			input.ClassificationTarget, _ = cmd.Flags().GetString("classification")
			input.Activate, _ = cmd.Flags().GetBool("activate")
		}

		created, err := svc.Campaigns.Create(ctx, input)
		if err != nil {
			return errs.Wrap(err, "create campaign")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "campaign %d created: %s\n", created.CampaignID, created.Name); err != nil {
			return errs.Wrap(err, "write campaign create output")
		}
		return nil
	}),
}

var campaignActivateCmd = &cobra.Command{
	Use:   "activate <campaign-id>",
	Short: "Make one campaign the single active campaign",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		id, err := parseID(cmd.Flags().Args()[0])
		if err != nil {
			return err
		}

		activated, err := svc.Campaigns.Activate(ctx, id)
		if err != nil {
			return errs.Wrap(err, "activate campaign")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "campaign %d activated: %s\n", activated.CampaignID, activated.Name); err != nil {
			return errs.Wrap(err, "write campaign activate output")
		}
		return nil
	}),
}

func parseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.Validationf("id must be a positive integer, got %q", raw)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(campaignCmd)
	campaignCmd.AddCommand(campaignListCmd)
	campaignCmd.AddCommand(campaignCreateCmd)
	campaignCmd.AddCommand(campaignActivateCmd)

	campaignCreateCmd.Flags().String("from-file", "", "Campaign definition TOML file")
	campaignCreateCmd.Flags().String("name", "", "Campaign name")
	campaignCreateCmd.Flags().String("starts-at", "", "Campaign start (RFC3339)")
	campaignCreateCmd.Flags().String("ends-at", "", "Campaign end (RFC3339)")
	campaignCreateCmd.Flags().String("category", "", "Category target code")
	campaignCreateCmd.Flags().String("type", "", "Type target code")
	campaignCreateCmd.Flags().String("classification", "", "Classification target code")
	campaignCreateCmd.Flags().Bool("activate", false, "Activate the campaign on creation")
}
