package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"scanrecon/internal/bootstrap"
	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/errs"
	"scanrecon/internal/usecase/masterdata"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import master catalog and dictionary CSV files",
}

var importMasterCmd = &cobra.Command{
	Use:   "master <file.csv>",
	Short: "Import a master catalog CSV (delimiter is sniffed)",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		path := cmd.Flags().Args()[0]
		raw, err := os.ReadFile(path)
		if err != nil {
			return errs.Wrapf(err, "read %q", path)
		}

		items, err := masterdata.ParseMasterCSV(raw)
		if err != nil {
			return errs.Wrap(err, "parse master csv")
		}
		written, err := svc.MasterData.UpsertMaster(ctx, items)
		if err != nil {
			return errs.Wrap(err, "upsert master rows")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "imported %d master rows from %s\n", written, path); err != nil {
			return errs.Wrap(err, "write import output")
		}
		return nil
	}),
}

var importDictionaryCmd = &cobra.Command{
	Use:   "dictionary <kind> <file.csv>",
	Short: "Import a code book CSV (kind: category|type|classification)",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		args := cmd.Flags().Args()
		kind, path := args[0], args[1]
		raw, err := os.ReadFile(path)
		if err != nil {
			return errs.Wrapf(err, "read %q", path)
		}

		rows, err := masterdata.ParseDictionaryCSV(raw)
		if err != nil {
			return errs.Wrap(err, "parse dictionary csv")
		}
		written, err := svc.MasterData.UpsertDictionary(ctx, kind, rows)
		if err != nil {
			return errs.Wrap(err, "upsert dictionary rows")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "imported %d %s rows from %s\n", written, kind, path); err != nil {
			return errs.Wrap(err, "write import output")
		}
		return nil
	}),
}

var importWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the configured inbox directory and import dropped CSVs",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *services) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx = logging.WithAttrs(ctx, slog.String("command", cmd.CommandPath()))

		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = app.Config.Importer.InboxDir
		}

		if err := svc.MasterData.WatchInbox(ctx, dir); err != nil {
			return errs.Wrap(err, "watch inbox")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.AddCommand(importMasterCmd)
	importCmd.AddCommand(importDictionaryCmd)
	importCmd.AddCommand(importWatchCmd)

	importWatchCmd.Flags().String("dir", "", "Inbox directory (default: importer.inbox_dir from config)")
}
