package ports

import (
	"context"
	"errors"
)

var (
	ErrMasterEntryNotFound = errors.New("master entry not found")
	ErrCampaignNotFound    = errors.New("campaign not found")
	ErrSnapshotNotFound    = errors.New("campaign snapshot not found")
	ErrDecisionNotFound    = errors.New("update decision not found")
)

// MasterEntry is the catalog of record; rows are only ever upserted.
type MasterEntry struct {
	SKU                string `json:"sku"`
	Description        string `json:"description"`
	CategoryCode       string `json:"category_code"`
	TypeCode           string `json:"type_code"`
	ClassificationCode string `json:"classification_code"`
	UpdatedAt          string `json:"updated_at"`
}

type Campaign struct {
	CampaignID           uint64 `json:"campaign_id"`
	Name                 string `json:"name"`
	StartsAt             string `json:"starts_at"`
	EndsAt               string `json:"ends_at"`
	CategoryTarget       string `json:"category_target"`
	TypeTarget           string `json:"type_target"`
	ClassificationTarget string `json:"classification_target"`
	Active               bool   `json:"active"`
	CreatedAt            string `json:"created_at"`
}

// CampaignSnapshot is the immutable per-campaign copy of one master entry's
// codes, the baseline scans and decisions are compared against.
type CampaignSnapshot struct {
	CampaignID         uint64 `json:"campaign_id"`
	SKU                string `json:"sku"`
	Description        string `json:"description"`
	CategoryCode       string `json:"category_code"`
	TypeCode           string `json:"type_code"`
	ClassificationCode string `json:"classification_code"`
}

// ScanEvent is one field observation, append-only. Suggested codes are nil
// when the operator did not enter them; assumed codes are the resolved
// values (suggested, else snapshot), empty when neither existed.
type ScanEvent struct {
	ScanID                      uint64  `json:"scan_id"`
	CampaignID                  uint64  `json:"campaign_id"`
	SKU                         string  `json:"sku"`
	Branch                      string  `json:"branch"`
	SubmitterEmail              string  `json:"submitter_email"`
	Status                      string  `json:"status"`
	SuggestedCategoryCode       *string `json:"suggested_category_code"`
	SuggestedTypeCode           *string `json:"suggested_type_code"`
	SuggestedClassificationCode *string `json:"suggested_classification_code"`
	AssumedCategoryCode         string  `json:"assumed_category_code"`
	AssumedTypeCode             string  `json:"assumed_type_code"`
	AssumedClassificationCode   string  `json:"assumed_classification_code"`
	Timestamp                   string  `json:"timestamp"`
}

// UpdateDecision is one accept/reject/apply/revert audit row. Old codes are
// nil when the SKU had no snapshot baseline.
type UpdateDecision struct {
	DecisionID            uint64  `json:"decision_id"`
	CampaignID            uint64  `json:"campaign_id"`
	SKU                   string  `json:"sku"`
	OldCategoryCode       *string `json:"old_category_code"`
	OldTypeCode           *string `json:"old_type_code"`
	OldClassificationCode *string `json:"old_classification_code"`
	NewCategoryCode       string  `json:"new_category_code"`
	NewTypeCode           string  `json:"new_type_code"`
	NewClassificationCode string  `json:"new_classification_code"`
	Status                string  `json:"status"`
	Archived              bool    `json:"archived"`
	ArchivedAt            *string `json:"archived_at"`
	ArchivedBy            string  `json:"archived_by"`
	DecidedBy             string  `json:"decided_by"`
	DecidedAt             *string `json:"decided_at"`
	AppliedAt             *string `json:"applied_at"`
	Notes                 string  `json:"notes"`
	CreatedAt             string  `json:"created_at"`
}

// DictionaryEntry is one row of the category/type/classification code books.
type DictionaryEntry struct {
	Kind string `json:"kind"`
	Code string `json:"code"`
	Name string `json:"name"`
}

const (
	DictionaryCategory       = "category"
	DictionaryType           = "type"
	DictionaryClassification = "classification"
)

type DecisionFilter struct {
	CampaignID uint64
	SKU        string
	Status     string
	Archived   *bool
}

type MasterRepository interface {
	Get(ctx context.Context, sku string) (MasterEntry, error)
	List(ctx context.Context) ([]MasterEntry, error)
	// Upsert replaces the whole row (bulk import semantics).
	Upsert(ctx context.Context, entry MasterEntry) error
	// UpsertCodes updates only the classification codes of an existing row;
	// the description is used when the SKU is inserted fresh.
	UpsertCodes(ctx context.Context, entry MasterEntry) error
}

type CampaignRepository interface {
	Get(ctx context.Context, campaignID uint64) (Campaign, error)
	Active(ctx context.Context) (Campaign, bool, error)
	List(ctx context.Context) ([]Campaign, error)
	Create(ctx context.Context, campaign Campaign) (Campaign, error)
	DeactivateAll(ctx context.Context) error
	SetActive(ctx context.Context, campaignID uint64) error
}

type SnapshotRepository interface {
	Get(ctx context.Context, campaignID uint64, sku string) (CampaignSnapshot, error)
	ListByCampaign(ctx context.Context, campaignID uint64) ([]CampaignSnapshot, error)
	CreateMany(ctx context.Context, snapshots []CampaignSnapshot) error
}

type ScanRepository interface {
	Create(ctx context.Context, event ScanEvent) (ScanEvent, error)
	ListByCampaign(ctx context.Context, campaignID uint64, skuContains string) ([]ScanEvent, error)
}

type DecisionRepository interface {
	Get(ctx context.Context, decisionID uint64) (UpdateDecision, error)
	List(ctx context.Context, filter DecisionFilter) ([]UpdateDecision, error)
	ListByIDs(ctx context.Context, decisionIDs []uint64) ([]UpdateDecision, error)
	Create(ctx context.Context, decision UpdateDecision) (UpdateDecision, error)
	ArchivePending(ctx context.Context, campaignID uint64, sku string, archivedBy string, archivedAt string) (int64, error)
	SetArchived(ctx context.Context, decisionIDs []uint64, archived bool, archivedBy string, archivedAt string) (int64, error)
	MarkApplied(ctx context.Context, decisionID uint64, decidedBy string, decidedAt string, appliedAt string) error
	Delete(ctx context.Context, decisionID uint64) error
}

type DictionaryRepository interface {
	List(ctx context.Context, kind string) ([]DictionaryEntry, error)
	Upsert(ctx context.Context, entry DictionaryEntry) error
}
