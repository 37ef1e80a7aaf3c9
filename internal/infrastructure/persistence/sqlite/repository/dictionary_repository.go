package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"scanrecon/internal/errs"
	"scanrecon/internal/infrastructure/persistence/sqlite/model"
	"scanrecon/internal/ports"
)

type DictionaryRepository struct {
	db *gorm.DB
}

func NewDictionaryRepository(db *gorm.DB) *DictionaryRepository {
	return &DictionaryRepository{db: db}
}

func (r *DictionaryRepository) List(ctx context.Context, kind string) ([]ports.DictionaryEntry, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.DictionaryEntry{})
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var rows []model.DictionaryEntry
	if err := query.Order("kind asc, code asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query dictionary entries")
	}

	items := make([]ports.DictionaryEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.DictionaryEntry{Kind: row.Kind, Code: row.Code, Name: row.Name})
	}
	return items, nil
}

func (r *DictionaryRepository) Upsert(ctx context.Context, entry ports.DictionaryEntry) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	row := model.DictionaryEntry{Kind: entry.Kind, Code: entry.Code, Name: entry.Name}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}, {Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert dictionary entry")
	}
	return nil
}
