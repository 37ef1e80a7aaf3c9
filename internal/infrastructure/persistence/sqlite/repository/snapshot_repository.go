package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"scanrecon/internal/errs"
	"scanrecon/internal/infrastructure/persistence/sqlite/model"
	"scanrecon/internal/ports"
)

type SnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Get(ctx context.Context, campaignID uint64, sku string) (ports.CampaignSnapshot, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.CampaignSnapshot{}, err
	}

	var row model.CampaignSnapshot
	if err := db.Where("campaign_id = ? AND sku = ?", campaignID, sku).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CampaignSnapshot{}, ports.ErrSnapshotNotFound
		}
		return ports.CampaignSnapshot{}, errs.Wrap(err, "query campaign snapshot")
	}
	return mapSnapshot(row), nil
}

func (r *SnapshotRepository) ListByCampaign(ctx context.Context, campaignID uint64) ([]ports.CampaignSnapshot, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.CampaignSnapshot
	if err := db.Where("campaign_id = ?", campaignID).Order("sku asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query campaign snapshots")
	}

	items := make([]ports.CampaignSnapshot, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapSnapshot(row))
	}
	return items, nil
}

func (r *SnapshotRepository) CreateMany(ctx context.Context, snapshots []ports.CampaignSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	rows := make([]model.CampaignSnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, model.CampaignSnapshot{
			CampaignID:         s.CampaignID,
			SKU:                s.SKU,
			Description:        s.Description,
			CategoryCode:       s.CategoryCode,
			TypeCode:           s.TypeCode,
			ClassificationCode: s.ClassificationCode,
		})
	}

	if err := db.CreateInBatches(&rows, 200).Error; err != nil {
		return errs.Wrap(err, "create campaign snapshots")
	}
	return nil
}

func mapSnapshot(row model.CampaignSnapshot) ports.CampaignSnapshot {
	return ports.CampaignSnapshot{
		CampaignID:         row.CampaignID,
		SKU:                row.SKU,
		Description:        row.Description,
		CategoryCode:       row.CategoryCode,
		TypeCode:           row.TypeCode,
		ClassificationCode: row.ClassificationCode,
	}
}
