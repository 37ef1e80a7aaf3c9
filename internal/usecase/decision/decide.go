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

type DecideInput struct {
	CampaignID uint64
	RawSKU     string
	Proposal   catalog.CodeSet
	Verdict    string
	DecidedBy  string
	ApplyNow   bool
	Notes      string
}

// Decide records a verdict on one SKU's proposal. Any previously pending
// decision for the same campaign and SKU is archived first, in the same
// transaction, so at most one non-archived pending decision exists per SKU.
// With ApplyNow an accepted proposal is written to the master catalog
// immediately.
func (s *Service) Decide(ctx context.Context, input DecideInput) (ports.UpdateDecision, error) {
	if ctx == nil {
		return ports.UpdateDecision{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.UpdateDecision{}, errs.Wrap(err, "check context")
	}

	sku := catalog.CleanSKU(input.RawSKU)
	if sku == "" {
		return ports.UpdateDecision{}, errs.Validationf("sku is required")
	}
	if input.CampaignID == 0 {
		return ports.UpdateDecision{}, errs.Validationf("campaign id is required")
	}

	proposal := input.Proposal.Canonical()
	if proposal.IsZero() {
		return ports.UpdateDecision{}, errs.Validationf("proposed codes are required")
	}

	verdict, err := catalog.ParseVerdict(input.Verdict)
	if err != nil {
		return ports.UpdateDecision{}, errs.Validationf("decision must be accept or reject, got %q", input.Verdict)
	}

	operator := operatorOrDefault(input.DecidedBy)
	status := catalog.StatusForVerdict(verdict, input.ApplyNow)
	now := nowUTCString()

	var created ports.UpdateDecision
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		record := ports.UpdateDecision{
			CampaignID:            input.CampaignID,
			SKU:                   sku,
			NewCategoryCode:       proposal.Category,
			NewTypeCode:           proposal.Type,
			NewClassificationCode: proposal.Classification,
			Status:                string(status),
			DecidedBy:             operator,
			DecidedAt:             &now,
			Notes:                 input.Notes,
			CreatedAt:             now,
		}

		snapshot, err := s.snapshots.Get(txCtx, input.CampaignID, sku)
		switch {
		case err == nil:
			record.OldCategoryCode = &snapshot.CategoryCode
			record.OldTypeCode = &snapshot.TypeCode
			record.OldClassificationCode = &snapshot.ClassificationCode
		case !errors.Is(err, ports.ErrSnapshotNotFound):
			return err
		}

		if _, err := s.decisions.ArchivePending(txCtx, input.CampaignID, sku, operator, now); err != nil {
			return err
		}

		if status == catalog.DecisionApplied {
			record.AppliedAt = &now
			if err := s.masters.UpsertCodes(txCtx, ports.MasterEntry{
				SKU:                sku,
				Description:        snapshot.Description,
				CategoryCode:       proposal.Category,
				TypeCode:           proposal.Type,
				ClassificationCode: proposal.Classification,
				UpdatedAt:          now,
			}); err != nil {
				return err
			}
		}

		created, err = s.decisions.Create(txCtx, record)
		return err
	}); err != nil {
		return ports.UpdateDecision{}, err
	}

	logging.Info(ctx, "decision recorded",
		slog.Uint64("decision_id", created.DecisionID),
		slog.String("sku", sku),
		slog.String("status", created.Status),
	)

	if status == catalog.DecisionApplied {
		s.publishBestEffort(ctx, created, now)
	}
	return created, nil
}
