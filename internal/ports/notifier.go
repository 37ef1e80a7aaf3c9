package ports

import "context"

// CatalogUpdate describes one applied decision's effect on the master catalog.
type CatalogUpdate struct {
	DecisionID         uint64 `json:"decision_id"`
	CampaignID         uint64 `json:"campaign_id"`
	SKU                string `json:"sku"`
	CategoryCode       string `json:"category_code"`
	TypeCode           string `json:"type_code"`
	ClassificationCode string `json:"classification_code"`
	AppliedAt          string `json:"applied_at"`
}

// Notifier publishes applied catalog updates to interested consumers.
// Publishing is best-effort; callers log failures and move on.
type Notifier interface {
	PublishCatalogUpdate(ctx context.Context, update CatalogUpdate) error
}
