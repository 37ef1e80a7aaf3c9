package masterdata

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/errs"
)

// WatchInbox imports every CSV file dropped into dir until ctx is cancelled.
// Files already present at startup are imported first. A file that fails to
// parse is logged and left in place.
func (s *Service) WatchInbox(ctx context.Context, dir string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if dir == "" {
		return errs.Validationf("inbox directory is required")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrapf(err, "create inbox directory %q", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errs.Wrap(err, "create inbox watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return errs.Wrapf(err, "watch inbox directory %q", dir)
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "masterdata.watcher"), slog.String("dir", dir))
	logging.Info(logCtx, "watching master import inbox")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return errs.Wrapf(err, "read inbox directory %q", dir)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			s.importInboxFile(logCtx, filepath.Join(dir, entry.Name()))
		}
	}

	for {
		select {
		case <-ctx.Done():
			logging.Info(logCtx, "inbox watcher stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			s.importInboxFile(logCtx, event.Name)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn(logCtx, "inbox watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

func (s *Service) importInboxFile(ctx context.Context, path string) {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		logging.Warn(ctx, "read inbox file failed",
			slog.String("file", path),
			slog.String("error", err.Error()),
		)
		return
	}

	items, err := ParseMasterCSV(raw)
	if err != nil {
		logging.Warn(ctx, "parse inbox file failed",
			slog.String("file", path),
			slog.String("error", err.Error()),
		)
		return
	}

	written, err := s.UpsertMaster(ctx, items)
	if err != nil {
		logging.Error(ctx, "import inbox file failed",
			slog.String("file", path),
			slog.String("error", err.Error()),
		)
		return
	}

	logging.Info(ctx, "inbox file imported",
		slog.String("file", path),
		slog.Int("rows", written),
	)
}
