package decision

import (
	"context"
	"errors"
	"log/slog"

	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/errs"
	"scanrecon/internal/ports"
)

type ApplyBatchInput struct {
	DecisionIDs []uint64
	DecidedBy   string
}

// ApplyBatch writes the new codes of each referenced decision to the master
// catalog and stamps it applied, regardless of its current status. Each
// decision is applied in its own transaction; ids that match nothing are
// skipped. Returns the number of decisions applied.
func (s *Service) ApplyBatch(ctx context.Context, input ApplyBatchInput) (int, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return 0, errs.Wrap(err, "check context")
	}
	if len(input.DecisionIDs) == 0 {
		return 0, errs.Validationf("decision ids are required")
	}

	targets, err := s.decisions.ListByIDs(ctx, input.DecisionIDs)
	if err != nil {
		return 0, err
	}

	operator := operatorOrDefault(input.DecidedBy)
	applied := 0

	for _, target := range targets {
		now := nowUTCString()
		codes := newCodes(target)

		if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
			description := ""
			snapshot, err := s.snapshots.Get(txCtx, target.CampaignID, target.SKU)
			switch {
			case err == nil:
				description = snapshot.Description
			case !errors.Is(err, ports.ErrSnapshotNotFound):
				return err
			}

			if err := s.masters.UpsertCodes(txCtx, ports.MasterEntry{
				SKU:                target.SKU,
				Description:        description,
				CategoryCode:       codes.Category,
				TypeCode:           codes.Type,
				ClassificationCode: codes.Classification,
				UpdatedAt:          now,
			}); err != nil {
				return err
			}

			return s.decisions.MarkApplied(txCtx, target.DecisionID, operator, now, now)
		}); err != nil {
			return applied, errs.Wrapf(err, "apply decision %d", target.DecisionID)
		}

		applied++
		s.publishBestEffort(ctx, target, now)
	}

	logging.Info(ctx, "decision batch applied",
		slog.Int("requested", len(input.DecisionIDs)),
		slog.Int("applied", applied),
	)
	return applied, nil
}
