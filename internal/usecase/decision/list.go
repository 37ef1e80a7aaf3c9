package decision

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"scanrecon/internal/domain/catalog"
	"scanrecon/internal/errs"
	"scanrecon/internal/ports"
)

// List returns decisions matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter ports.DecisionFilter) ([]ports.UpdateDecision, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if filter.SKU != "" {
		filter.SKU = catalog.CleanSKU(filter.SKU)
	}
	return s.decisions.List(ctx, filter)
}

// Get returns one decision by id.
func (s *Service) Get(ctx context.Context, decisionID uint64) (ports.UpdateDecision, error) {
	if ctx == nil {
		return ports.UpdateDecision{}, errors.New("context is required")
	}
	dec, err := s.decisions.Get(ctx, decisionID)
	if err != nil {
		if errors.Is(err, ports.ErrDecisionNotFound) {
			return ports.UpdateDecision{}, errs.NotFoundf("decision %d", decisionID)
		}
		return ports.UpdateDecision{}, err
	}
	return dec, nil
}

// ExportCSV renders a campaign's decision log as spreadsheet rows.
func (s *Service) ExportCSV(ctx context.Context, campaignID uint64) ([][]string, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if campaignID == 0 {
		return nil, errs.Validationf("campaign id is required")
	}

	decisions, err := s.decisions.List(ctx, ports.DecisionFilter{CampaignID: campaignID})
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(decisions)+1)
	rows = append(rows, []string{
		"decision_id", "sku",
		"old_category", "old_type", "old_classification",
		"new_category", "new_type", "new_classification",
		"status", "archived", "decided_by", "decided_at", "applied_at", "notes",
	})
	for _, dec := range decisions {
		rows = append(rows, []string{
			strconv.FormatUint(dec.DecisionID, 10),
			dec.SKU,
			deref(dec.OldCategoryCode),
			deref(dec.OldTypeCode),
			deref(dec.OldClassificationCode),
			dec.NewCategoryCode,
			dec.NewTypeCode,
			dec.NewClassificationCode,
			dec.Status,
			strconv.FormatBool(dec.Archived),
			dec.DecidedBy,
			deref(dec.DecidedAt),
			deref(dec.AppliedAt),
			dec.Notes,
		})
	}
	return rows, nil
}

type FieldExportInput struct {
	CampaignID uint64
	// Field is one of category, type, classification.
	Field string
	// Status filters by decision status; empty means applied only, "all"
	// disables the filter.
	Status          string
	IncludeArchived bool
}

// ExportFieldTXT renders one classification field as tab-separated
// "SKU<TAB>code" lines for the retail back office loader. Rows whose code is
// empty or unchanged from the baseline are skipped.
func (s *Service) ExportFieldTXT(ctx context.Context, input FieldExportInput) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if input.CampaignID == 0 {
		return "", errs.Validationf("campaign id is required")
	}

	field := strings.ToLower(strings.TrimSpace(input.Field))
	switch field {
	case "category", "type", "classification":
	default:
		return "", errs.Validationf("field must be category, type or classification, got %q", input.Field)
	}

	filter := ports.DecisionFilter{CampaignID: input.CampaignID}
	switch strings.ToLower(strings.TrimSpace(input.Status)) {
	case "", string(catalog.DecisionApplied):
		filter.Status = string(catalog.DecisionApplied)
	case "all":
	case string(catalog.DecisionPending):
		filter.Status = string(catalog.DecisionPending)
	case string(catalog.DecisionRejected):
		filter.Status = string(catalog.DecisionRejected)
	default:
		return "", errs.Validationf("unknown status filter %q", input.Status)
	}
	if !input.IncludeArchived {
		notArchived := false
		filter.Archived = &notArchived
	}

	decisions, err := s.decisions.List(ctx, filter)
	if err != nil {
		return "", err
	}

	sort.SliceStable(decisions, func(i, j int) bool {
		if decisions[i].SKU != decisions[j].SKU {
			return decisions[i].SKU < decisions[j].SKU
		}
		return decisions[i].DecisionID < decisions[j].DecisionID
	})

	var b strings.Builder
	for _, dec := range decisions {
		oldCode, newCode := fieldCodes(dec, field)
		if newCode == "" || oldCode == newCode {
			continue
		}
		b.WriteString(dec.SKU)
		b.WriteByte('\t')
		b.WriteString(newCode)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func fieldCodes(dec ports.UpdateDecision, field string) (oldCode, newCode string) {
	switch field {
	case "category":
		return deref(dec.OldCategoryCode), dec.NewCategoryCode
	case "type":
		return deref(dec.OldTypeCode), dec.NewTypeCode
	default:
		return deref(dec.OldClassificationCode), dec.NewClassificationCode
	}
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
