package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"scanrecon/internal/errs"
	"scanrecon/internal/infrastructure/persistence/sqlite/model"
	"scanrecon/internal/ports"
)

type DecisionRepository struct {
	db *gorm.DB
}

func NewDecisionRepository(db *gorm.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

func (r *DecisionRepository) Get(ctx context.Context, decisionID uint64) (ports.UpdateDecision, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.UpdateDecision{}, err
	}

	var row model.UpdateDecision
	if err := db.Where("decision_id = ?", decisionID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.UpdateDecision{}, ports.ErrDecisionNotFound
		}
		return ports.UpdateDecision{}, errs.Wrap(err, "query update decision")
	}
	return mapDecision(row), nil
}

// List returns decisions newest first.
func (r *DecisionRepository) List(ctx context.Context, filter ports.DecisionFilter) ([]ports.UpdateDecision, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.UpdateDecision{})
	if filter.CampaignID != 0 {
		query = query.Where("campaign_id = ?", filter.CampaignID)
	}
	if filter.SKU != "" {
		query = query.Where("sku = ?", filter.SKU)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Archived != nil {
		query = query.Where("archived = ?", *filter.Archived)
	}

	var rows []model.UpdateDecision
	if err := query.Order("decision_id desc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query update decisions")
	}

	items := make([]ports.UpdateDecision, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapDecision(row))
	}
	return items, nil
}

func (r *DecisionRepository) ListByIDs(ctx context.Context, decisionIDs []uint64) ([]ports.UpdateDecision, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}
	if len(decisionIDs) == 0 {
		return nil, nil
	}

	var rows []model.UpdateDecision
	if err := db.Where("decision_id IN ?", decisionIDs).Order("decision_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query update decisions by id")
	}

	items := make([]ports.UpdateDecision, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapDecision(row))
	}
	return items, nil
}

func (r *DecisionRepository) Create(ctx context.Context, decision ports.UpdateDecision) (ports.UpdateDecision, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.UpdateDecision{}, err
	}

	row := model.UpdateDecision{
		CampaignID:            decision.CampaignID,
		SKU:                   decision.SKU,
		OldCategoryCode:       decision.OldCategoryCode,
		OldTypeCode:           decision.OldTypeCode,
		OldClassificationCode: decision.OldClassificationCode,
		NewCategoryCode:       decision.NewCategoryCode,
		NewTypeCode:           decision.NewTypeCode,
		NewClassificationCode: decision.NewClassificationCode,
		Status:                decision.Status,
		Archived:              decision.Archived,
		ArchivedAt:            decision.ArchivedAt,
		ArchivedBy:            decision.ArchivedBy,
		DecidedBy:             decision.DecidedBy,
		DecidedAt:             decision.DecidedAt,
		AppliedAt:             decision.AppliedAt,
		Notes:                 decision.Notes,
		CreatedAt:             decision.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.UpdateDecision{}, errs.Wrap(err, "create update decision")
	}
	return mapDecision(row), nil
}

// ArchivePending archives every live pending decision for one (campaign, sku),
// keeping the audit trail while enforcing a single active pending row.
func (r *DecisionRepository) ArchivePending(ctx context.Context, campaignID uint64, sku string, archivedBy string, archivedAt string) (int64, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return 0, err
	}

	res := db.Model(&model.UpdateDecision{}).
		Where("campaign_id = ? AND sku = ? AND status = ? AND archived = ?", campaignID, sku, "pending", false).
		Updates(map[string]any{
			"archived":    true,
			"archived_at": archivedAt,
			"archived_by": archivedBy,
		})
	if res.Error != nil {
		return 0, errs.Wrap(res.Error, "archive pending decisions")
	}
	return res.RowsAffected, nil
}

func (r *DecisionRepository) SetArchived(ctx context.Context, decisionIDs []uint64, archived bool, archivedBy string, archivedAt string) (int64, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return 0, err
	}
	if len(decisionIDs) == 0 {
		return 0, nil
	}

	res := db.Model(&model.UpdateDecision{}).
		Where("decision_id IN ?", decisionIDs).
		Updates(map[string]any{
			"archived":    archived,
			"archived_at": archivedAt,
			"archived_by": archivedBy,
		})
	if res.Error != nil {
		return 0, errs.Wrap(res.Error, "set archived flag")
	}
	return res.RowsAffected, nil
}

func (r *DecisionRepository) MarkApplied(ctx context.Context, decisionID uint64, decidedBy string, decidedAt string, appliedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	fields := map[string]any{
		"status":     "applied",
		"decided_at": decidedAt,
		"applied_at": appliedAt,
	}
	if decidedBy != "" {
		fields["decided_by"] = decidedBy
	}

	res := db.Model(&model.UpdateDecision{}).
		Where("decision_id = ?", decisionID).
		Updates(fields)
	if res.Error != nil {
		return errs.Wrap(res.Error, "mark decision applied")
	}
	if res.RowsAffected == 0 {
		return ports.ErrDecisionNotFound
	}
	return nil
}

func (r *DecisionRepository) Delete(ctx context.Context, decisionID uint64) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	res := db.Where("decision_id = ?", decisionID).Delete(&model.UpdateDecision{})
	if res.Error != nil {
		return errs.Wrap(res.Error, "delete update decision")
	}
	if res.RowsAffected == 0 {
		return ports.ErrDecisionNotFound
	}
	return nil
}

func mapDecision(row model.UpdateDecision) ports.UpdateDecision {
	return ports.UpdateDecision{
		DecisionID:            row.DecisionID,
		CampaignID:            row.CampaignID,
		SKU:                   row.SKU,
		OldCategoryCode:       row.OldCategoryCode,
		OldTypeCode:           row.OldTypeCode,
		OldClassificationCode: row.OldClassificationCode,
		NewCategoryCode:       row.NewCategoryCode,
		NewTypeCode:           row.NewTypeCode,
		NewClassificationCode: row.NewClassificationCode,
		Status:                row.Status,
		Archived:              row.Archived,
		ArchivedAt:            row.ArchivedAt,
		ArchivedBy:            row.ArchivedBy,
		DecidedBy:             row.DecidedBy,
		DecidedAt:             row.DecidedAt,
		AppliedAt:             row.AppliedAt,
		Notes:                 row.Notes,
		CreatedAt:             row.CreatedAt,
	}
}
