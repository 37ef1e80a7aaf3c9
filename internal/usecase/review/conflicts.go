package review

import (
	"context"
	"errors"

	"scanrecon/internal/domain/catalog"
	"scanrecon/internal/errs"
)

type ConflictsInput struct {
	CampaignID uint64
	SKUFilter  string
	// MinBranches below 1 falls back to catalog.DefaultMinBranches.
	MinBranches int
}

// BranchConflicts reports, for every SKU scanned by enough distinct branches,
// whether the branch-local majorities agree. SKUs below the branch threshold
// are omitted entirely.
func (s *Service) BranchConflicts(ctx context.Context, input ConflictsInput) ([]catalog.BranchConflict, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	campaignID, err := s.resolveCampaignID(ctx, input.CampaignID)
	if err != nil {
		return nil, err
	}

	minBranches := input.MinBranches
	if minBranches < 1 {
		minBranches = catalog.DefaultMinBranches
	}

	events, err := s.scans.ListByCampaign(ctx, campaignID, input.SKUFilter)
	if err != nil {
		return nil, err
	}

	observations := make([]catalog.ScanObservation, 0, len(events))
	for _, event := range events {
		observations = append(observations, observation(event))
	}

	aggregates := catalog.AggregateScans(observations)
	out := make([]catalog.BranchConflict, 0, len(aggregates))
	for _, agg := range aggregates {
		if conflict, ok := catalog.DetectBranchConflict(agg, minBranches); ok {
			out = append(out, conflict)
		}
	}

	return out, nil
}
