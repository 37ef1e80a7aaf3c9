package decision

import (
	"context"
	"errors"
	"log/slog"

	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/errs"
)

type ArchiveInput struct {
	DecisionIDs []uint64
	Archived    bool
	ArchivedBy  string
}

// Archive sets or clears the archived flag on a batch of decisions and
// returns how many rows changed.
func (s *Service) Archive(ctx context.Context, input ArchiveInput) (int64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return 0, errs.Wrap(err, "check context")
	}
	if len(input.DecisionIDs) == 0 {
		return 0, errs.Validationf("decision ids are required")
	}

	archivedAt := ""
	if input.Archived {
		archivedAt = nowUTCString()
	}

	changed, err := s.decisions.SetArchived(ctx, input.DecisionIDs, input.Archived, operatorOrDefault(input.ArchivedBy), archivedAt)
	if err != nil {
		return 0, err
	}

	logging.Info(ctx, "decisions archived",
		slog.Int64("changed", changed),
		slog.Bool("archived", input.Archived),
	)
	return changed, nil
}
