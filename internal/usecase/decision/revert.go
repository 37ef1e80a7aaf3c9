package decision

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/domain/catalog"
	"scanrecon/internal/errs"
	"scanrecon/internal/ports"
)

// Revert creates a compensating pending decision for an applied one: the new
// codes become the original old codes and vice versa. The applied decision is
// left untouched; applying the compensator restores the baseline. Falls back
// to the applied codes per field when the original had no baseline.
func (s *Service) Revert(ctx context.Context, decisionID uint64, decidedBy string) (ports.UpdateDecision, error) {
	if ctx == nil {
		return ports.UpdateDecision{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.UpdateDecision{}, errs.Wrap(err, "check context")
	}
	if decisionID == 0 {
		return ports.UpdateDecision{}, errs.Validationf("decision id is required")
	}

	now := nowUTCString()
	operator := operatorOrDefault(decidedBy)

	var created ports.UpdateDecision
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		target, err := s.decisions.Get(txCtx, decisionID)
		if err != nil {
			if errors.Is(err, ports.ErrDecisionNotFound) {
				return errs.NotFoundf("decision %d", decisionID)
			}
			return err
		}

		if err := catalog.CanRevert(catalog.DecisionStatus(target.Status)); err != nil {
			return errs.Conflictf("decision %d is not applied, nothing to revert", decisionID)
		}

		if _, err := s.decisions.ArchivePending(txCtx, target.CampaignID, target.SKU, operator, now); err != nil {
			return err
		}

		created, err = s.decisions.Create(txCtx, ports.UpdateDecision{
			CampaignID:            target.CampaignID,
			SKU:                   target.SKU,
			OldCategoryCode:       &target.NewCategoryCode,
			OldTypeCode:           &target.NewTypeCode,
			OldClassificationCode: &target.NewClassificationCode,
			NewCategoryCode:       catalog.PadCode(revertValue(target.OldCategoryCode, target.NewCategoryCode)),
			NewTypeCode:           catalog.PadCode(revertValue(target.OldTypeCode, target.NewTypeCode)),
			NewClassificationCode: catalog.PadCode(revertValue(target.OldClassificationCode, target.NewClassificationCode)),
			Status:                string(catalog.DecisionPending),
			DecidedBy:             operator,
			DecidedAt:             &now,
			Notes:                 "revert of decision " + strconv.FormatUint(decisionID, 10),
			CreatedAt:             now,
		})
		return err
	}); err != nil {
		return ports.UpdateDecision{}, err
	}

	logging.Info(ctx, "revert decision created",
		slog.Uint64("reverted_decision_id", decisionID),
		slog.Uint64("decision_id", created.DecisionID),
		slog.String("sku", created.SKU),
	)
	return created, nil
}

func revertValue(old *string, applied string) string {
	if old != nil && *old != "" {
		return *old
	}
	return applied
}
