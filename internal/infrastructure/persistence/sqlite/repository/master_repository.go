package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"scanrecon/internal/errs"
	"scanrecon/internal/infrastructure/persistence/sqlite/model"
	"scanrecon/internal/ports"
)

type MasterRepository struct {
	db *gorm.DB
}

func NewMasterRepository(db *gorm.DB) *MasterRepository {
	return &MasterRepository{db: db}
}

func (r *MasterRepository) Get(ctx context.Context, sku string) (ports.MasterEntry, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.MasterEntry{}, err
	}

	var row model.MasterEntry
	if err := db.Where("sku = ?", sku).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.MasterEntry{}, ports.ErrMasterEntryNotFound
		}
		return ports.MasterEntry{}, errs.Wrap(err, "query master entry")
	}
	return mapMasterEntry(row), nil
}

func (r *MasterRepository) List(ctx context.Context) ([]ports.MasterEntry, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.MasterEntry
	if err := db.Order("sku asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query master entries")
	}

	items := make([]ports.MasterEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapMasterEntry(row))
	}
	return items, nil
}

func (r *MasterRepository) Upsert(ctx context.Context, entry ports.MasterEntry) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	row := model.MasterEntry{
		SKU:                entry.SKU,
		Description:        entry.Description,
		CategoryCode:       entry.CategoryCode,
		TypeCode:           entry.TypeCode,
		ClassificationCode: entry.ClassificationCode,
		UpdatedAt:          entry.UpdatedAt,
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"description", "category_code", "type_code", "classification_code", "updated_at",
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert master entry")
	}
	return nil
}

// UpsertCodes pushes decision codes into the catalog without touching the
// description of an existing row.
func (r *MasterRepository) UpsertCodes(ctx context.Context, entry ports.MasterEntry) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	row := model.MasterEntry{
		SKU:                entry.SKU,
		Description:        entry.Description,
		CategoryCode:       entry.CategoryCode,
		TypeCode:           entry.TypeCode,
		ClassificationCode: entry.ClassificationCode,
		UpdatedAt:          entry.UpdatedAt,
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"category_code", "type_code", "classification_code", "updated_at",
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert master codes")
	}
	return nil
}

func mapMasterEntry(row model.MasterEntry) ports.MasterEntry {
	return ports.MasterEntry{
		SKU:                row.SKU,
		Description:        row.Description,
		CategoryCode:       row.CategoryCode,
		TypeCode:           row.TypeCode,
		ClassificationCode: row.ClassificationCode,
		UpdatedAt:          row.UpdatedAt,
	}
}
