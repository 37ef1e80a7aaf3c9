package scan

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/domain/catalog"
	"scanrecon/internal/errs"
	"scanrecon/internal/ports"
)

type Service struct {
	campaigns ports.CampaignRepository
	snapshots ports.SnapshotRepository
	scans     ports.ScanRepository
}

func NewService(
	campaigns ports.CampaignRepository,
	snapshots ports.SnapshotRepository,
	scans ports.ScanRepository,
) *Service {
	return &Service{
		campaigns: campaigns,
		snapshots: snapshots,
		scans:     scans,
	}
}

type SubmitInput struct {
	CampaignID              uint64
	RawSKU                  string
	Branch                  string
	SubmitterEmail          string
	SuggestedCategory       string
	SuggestedType           string
	SuggestedClassification string
}

// SubmitResult is what the scanning device shows the operator right after a
// submission: the classification plus the baseline the scan was held against.
type SubmitResult struct {
	Event       ports.ScanEvent
	Status      catalog.ScanStatus
	InMaster    bool
	Description string
	Baseline    catalog.CodeSet
	Assumed     catalog.CodeSet
}

// Submit records one field scan against the campaign's snapshot baseline.
// The campaign must exist and be active; a SKU missing from the snapshot
// requires all three suggested codes.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (SubmitResult, error) {
	if ctx == nil {
		return SubmitResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return SubmitResult{}, errs.Wrap(err, "check context")
	}

	sku := catalog.CleanSKU(input.RawSKU)
	if sku == "" {
		return SubmitResult{}, errs.Validationf("sku is required")
	}
	if input.CampaignID == 0 {
		return SubmitResult{}, errs.Validationf("campaign id is required")
	}

	campaign, err := s.campaigns.Get(ctx, input.CampaignID)
	if err != nil {
		if errors.Is(err, ports.ErrCampaignNotFound) {
			return SubmitResult{}, errs.Validationf("campaign %d does not exist or is not active", input.CampaignID)
		}
		return SubmitResult{}, err
	}
	if !campaign.Active {
		return SubmitResult{}, errs.Validationf("campaign %d does not exist or is not active", input.CampaignID)
	}

	snapshot, err := s.snapshots.Get(ctx, input.CampaignID, sku)
	hasSnapshot := err == nil
	if err != nil && !errors.Is(err, ports.ErrSnapshotNotFound) {
		return SubmitResult{}, err
	}

	baseline := catalog.CodeSet{
		Category:       snapshot.CategoryCode,
		Type:           snapshot.TypeCode,
		Classification: snapshot.ClassificationCode,
	}
	targets := catalog.CodeSet{
		Category:       campaign.CategoryTarget,
		Type:           campaign.TypeTarget,
		Classification: campaign.ClassificationTarget,
	}

	suggested := catalog.CodeSet{
		Category:       catalog.PadCode(input.SuggestedCategory),
		Type:           catalog.PadCode(input.SuggestedType),
		Classification: catalog.PadCode(input.SuggestedClassification),
	}
	if !hasSnapshot && (suggested.Category == "" || suggested.Type == "" || suggested.Classification == "") {
		return SubmitResult{}, errs.Validationf("sku %s is not in the master catalog; category, type and classification are required", sku)
	}

	status := catalog.ClassifyScan(hasSnapshot, catalog.MeetsTargets(baseline, targets))

	assumed := catalog.CodeSet{
		Category:       fallback(suggested.Category, baseline.Category),
		Type:           fallback(suggested.Type, baseline.Type),
		Classification: fallback(suggested.Classification, baseline.Classification),
	}

	event, err := s.scans.Create(ctx, ports.ScanEvent{
		CampaignID:                  input.CampaignID,
		SKU:                         sku,
		Branch:                      strings.TrimSpace(input.Branch),
		SubmitterEmail:              strings.TrimSpace(input.SubmitterEmail),
		Status:                      string(status),
		SuggestedCategoryCode:       optional(suggested.Category),
		SuggestedTypeCode:           optional(suggested.Type),
		SuggestedClassificationCode: optional(suggested.Classification),
		AssumedCategoryCode:         assumed.Category,
		AssumedTypeCode:             assumed.Type,
		AssumedClassificationCode:   assumed.Classification,
		Timestamp:                   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return SubmitResult{}, err
	}

	logging.Info(ctx, "scan recorded",
		slog.Uint64("scan_id", event.ScanID),
		slog.Uint64("campaign_id", event.CampaignID),
		slog.String("sku", sku),
		slog.String("status", string(status)),
	)

	return SubmitResult{
		Event:       event,
		Status:      status,
		InMaster:    hasSnapshot,
		Description: snapshot.Description,
		Baseline:    baseline,
		Assumed:     assumed,
	}, nil
}

func fallback(primary, secondary string) string {
	if primary != "" {
		return primary
	}
	return secondary
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
