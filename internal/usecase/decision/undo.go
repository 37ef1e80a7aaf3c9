package decision

import (
	"context"
	"errors"
	"log/slog"

	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/domain/catalog"
	"scanrecon/internal/errs"
	"scanrecon/internal/ports"
)

// Undo deletes a pending or rejected decision outright. Applied decisions
// are part of the audit trail and must be reverted instead; trying to undo
// one is a conflict.
func (s *Service) Undo(ctx context.Context, decisionID uint64) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if decisionID == 0 {
		return errs.Validationf("decision id is required")
	}

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		target, err := s.decisions.Get(txCtx, decisionID)
		if err != nil {
			if errors.Is(err, ports.ErrDecisionNotFound) {
				return errs.NotFoundf("decision %d", decisionID)
			}
			return err
		}

		if err := catalog.CanUndo(catalog.DecisionStatus(target.Status)); err != nil {
			return errs.Conflictf("decision %d is applied, revert it instead", decisionID)
		}

		return s.decisions.Delete(txCtx, decisionID)
	}); err != nil {
		return err
	}

	logging.Info(ctx, "decision undone", slog.Uint64("decision_id", decisionID))
	return nil
}
