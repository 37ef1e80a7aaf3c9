package review

import (
	"context"
	"errors"
	"math"

	"scanrecon/internal/domain/catalog"
	"scanrecon/internal/errs"
	"scanrecon/internal/ports"
)

type Service struct {
	campaigns ports.CampaignRepository
	snapshots ports.SnapshotRepository
	scans     ports.ScanRepository
	decisions ports.DecisionRepository
}

func NewService(
	campaigns ports.CampaignRepository,
	snapshots ports.SnapshotRepository,
	scans ports.ScanRepository,
	decisions ports.DecisionRepository,
) *Service {
	return &Service{
		campaigns: campaigns,
		snapshots: snapshots,
		scans:     scans,
		decisions: decisions,
	}
}

// resolveCampaignID falls back to the active campaign when no explicit id was
// given, so the console and HTTP list default to current work.
func (s *Service) resolveCampaignID(ctx context.Context, campaignID uint64) (uint64, error) {
	if campaignID != 0 {
		if _, err := s.campaigns.Get(ctx, campaignID); err != nil {
			if errors.Is(err, ports.ErrCampaignNotFound) {
				return 0, errs.NotFoundf("campaign %d", campaignID)
			}
			return 0, err
		}
		return campaignID, nil
	}

	active, ok, err := s.campaigns.Active(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errs.Validationf("no campaign id given and no campaign is active")
	}
	return active.CampaignID, nil
}

func (s *Service) snapshotIndex(ctx context.Context, campaignID uint64) (map[string]ports.CampaignSnapshot, error) {
	snapshots, err := s.snapshots.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	index := make(map[string]ports.CampaignSnapshot, len(snapshots))
	for _, snap := range snapshots {
		index[snap.SKU] = snap
	}
	return index, nil
}

func snapshotCodes(snap ports.CampaignSnapshot) catalog.CodeSet {
	return catalog.CodeSet{
		Category:       snap.CategoryCode,
		Type:           snap.TypeCode,
		Classification: snap.ClassificationCode,
	}
}

func observation(event ports.ScanEvent) catalog.ScanObservation {
	return catalog.ScanObservation{
		SKU:       event.SKU,
		Branch:    event.Branch,
		Submitter: event.SubmitterEmail,
		Codes: catalog.CodeSet{
			Category:       event.AssumedCategoryCode,
			Type:           event.AssumedTypeCode,
			Classification: event.AssumedClassificationCode,
		},
		Timestamp: event.Timestamp,
	}
}

func share(count, total int) float64 {
	if total < 1 {
		total = 1
	}
	return math.Round(float64(count)/float64(total)*100) / 100
}
