package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"scanrecon/internal/errs"
	"scanrecon/internal/infrastructure/persistence/sqlite/model"
	"scanrecon/internal/ports"
)

type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Get(ctx context.Context, campaignID uint64) (ports.Campaign, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.Campaign{}, err
	}

	var row model.Campaign
	if err := db.Where("campaign_id = ?", campaignID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Campaign{}, ports.ErrCampaignNotFound
		}
		return ports.Campaign{}, errs.Wrap(err, "query campaign")
	}
	return mapCampaign(row), nil
}

func (r *CampaignRepository) Active(ctx context.Context) (ports.Campaign, bool, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.Campaign{}, false, err
	}

	var row model.Campaign
	if err := db.Where("active = ?", true).Order("campaign_id asc").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Campaign{}, false, nil
		}
		return ports.Campaign{}, false, errs.Wrap(err, "query active campaign")
	}
	return mapCampaign(row), true, nil
}

func (r *CampaignRepository) List(ctx context.Context) ([]ports.Campaign, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.Campaign
	if err := db.Order("campaign_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query campaigns")
	}

	items := make([]ports.Campaign, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapCampaign(row))
	}
	return items, nil
}

func (r *CampaignRepository) Create(ctx context.Context, campaign ports.Campaign) (ports.Campaign, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.Campaign{}, err
	}

	row := model.Campaign{
		Name:                 campaign.Name,
		StartsAt:             campaign.StartsAt,
		EndsAt:               campaign.EndsAt,
		CategoryTarget:       campaign.CategoryTarget,
		TypeTarget:           campaign.TypeTarget,
		ClassificationTarget: campaign.ClassificationTarget,
		Active:               campaign.Active,
		CreatedAt:            campaign.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Campaign{}, errs.Wrap(err, "create campaign")
	}
	return mapCampaign(row), nil
}

func (r *CampaignRepository) DeactivateAll(ctx context.Context) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	if err := db.Model(&model.Campaign{}).
		Where("active = ?", true).
		Update("active", false).Error; err != nil {
		return errs.Wrap(err, "deactivate campaigns")
	}
	return nil
}

func (r *CampaignRepository) SetActive(ctx context.Context, campaignID uint64) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	res := db.Model(&model.Campaign{}).
		Where("campaign_id = ?", campaignID).
		Update("active", true)
	if res.Error != nil {
		return errs.Wrap(res.Error, "activate campaign")
	}
	if res.RowsAffected == 0 {
		return ports.ErrCampaignNotFound
	}
	return nil
}

func mapCampaign(row model.Campaign) ports.Campaign {
	return ports.Campaign{
		CampaignID:           row.CampaignID,
		Name:                 row.Name,
		StartsAt:             row.StartsAt,
		EndsAt:               row.EndsAt,
		CategoryTarget:       row.CategoryTarget,
		TypeTarget:           row.TypeTarget,
		ClassificationTarget: row.ClassificationTarget,
		Active:               row.Active,
		CreatedAt:            row.CreatedAt,
	}
}
