package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"scanrecon/internal/errs"
	"scanrecon/internal/infrastructure/persistence/sqlite/model"
	"scanrecon/internal/ports"
)

type ScanRepository struct {
	db *gorm.DB
}

func NewScanRepository(db *gorm.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

func (r *ScanRepository) Create(ctx context.Context, event ports.ScanEvent) (ports.ScanEvent, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.ScanEvent{}, err
	}

	row := model.ScanEvent{
		CampaignID:                  event.CampaignID,
		SKU:                         event.SKU,
		Branch:                      event.Branch,
		SubmitterEmail:              event.SubmitterEmail,
		Status:                      event.Status,
		SuggestedCategoryCode:       event.SuggestedCategoryCode,
		SuggestedTypeCode:           event.SuggestedTypeCode,
		SuggestedClassificationCode: event.SuggestedClassificationCode,
		AssumedCategoryCode:         event.AssumedCategoryCode,
		AssumedTypeCode:             event.AssumedTypeCode,
		AssumedClassificationCode:   event.AssumedClassificationCode,
		Timestamp:                   event.Timestamp,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.ScanEvent{}, errs.Wrap(err, "create scan event")
	}
	return mapScanEvent(row), nil
}

// ListByCampaign returns the append-only scan log in insertion order;
// skuContains filters case-insensitively on a SKU substring.
func (r *ScanRepository) ListByCampaign(ctx context.Context, campaignID uint64, skuContains string) ([]ports.ScanEvent, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.ScanEvent{}).Where("campaign_id = ?", campaignID)
	if needle := strings.TrimSpace(skuContains); needle != "" {
		query = query.Where("sku LIKE ?", "%"+strings.ToUpper(needle)+"%")
	}

	var rows []model.ScanEvent
	if err := query.Order("scan_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query scan events")
	}

	items := make([]ports.ScanEvent, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapScanEvent(row))
	}
	return items, nil
}

func mapScanEvent(row model.ScanEvent) ports.ScanEvent {
	return ports.ScanEvent{
		ScanID:                      row.ScanID,
		CampaignID:                  row.CampaignID,
		SKU:                         row.SKU,
		Branch:                      row.Branch,
		SubmitterEmail:              row.SubmitterEmail,
		Status:                      row.Status,
		SuggestedCategoryCode:       row.SuggestedCategoryCode,
		SuggestedTypeCode:           row.SuggestedTypeCode,
		SuggestedClassificationCode: row.SuggestedClassificationCode,
		AssumedCategoryCode:         row.AssumedCategoryCode,
		AssumedTypeCode:             row.AssumedTypeCode,
		AssumedClassificationCode:   row.AssumedClassificationCode,
		Timestamp:                   row.Timestamp,
	}
}
