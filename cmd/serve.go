package cmd

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"scanrecon/internal/bootstrap"
	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/errs"
	transporthttp "scanrecon/internal/transport/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for scanning devices and the admin surface",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *services) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx = logging.WithAttrs(ctx, slog.String("command", cmd.CommandPath()))

		watchInbox, _ := cmd.Flags().GetBool("watch-inbox")
		if watchInbox {
			go func() {
				if err := svc.MasterData.WatchInbox(ctx, app.Config.Importer.InboxDir); err != nil {
					logging.Error(ctx, "inbox watcher failed", slog.Any("err", errs.Loggable(err)))
				}
			}()
		}

		if err := transporthttp.Serve(ctx, app.Config.HTTP, transporthttp.Handlers{
			Campaigns:  svc.Campaigns,
			Scans:      svc.Scans,
			Reviews:    svc.Reviews,
			Decisions:  svc.Decisions,
			MasterData: svc.MasterData,
		}); err != nil {
			return errs.Wrap(err, "serve http")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("watch-inbox", false, "Also watch the CSV import inbox while serving")
}
