package model

type UpdateDecision struct {
	DecisionID            uint64  `gorm:"column:decision_id;primaryKey;autoIncrement"`
	CampaignID            uint64  `gorm:"column:campaign_id;not null;index"`
	SKU                   string  `gorm:"column:sku;type:text;not null;index"`
	OldCategoryCode       *string `gorm:"column:old_category_code;type:text"`
	OldTypeCode           *string `gorm:"column:old_type_code;type:text"`
	OldClassificationCode *string `gorm:"column:old_classification_code;type:text"`
	NewCategoryCode       string  `gorm:"column:new_category_code;type:text;not null;default:''"`
	NewTypeCode           string  `gorm:"column:new_type_code;type:text;not null;default:''"`
	NewClassificationCode string  `gorm:"column:new_classification_code;type:text;not null;default:''"`
	Status                string  `gorm:"column:status;type:text;not null;index"`
	Archived              bool    `gorm:"column:archived;not null;default:0"`
	ArchivedAt            *string `gorm:"column:archived_at;type:text"`
	ArchivedBy            string  `gorm:"column:archived_by;type:text;not null;default:''"`
	DecidedBy             string  `gorm:"column:decided_by;type:text;not null;default:''"`
	DecidedAt             *string `gorm:"column:decided_at;type:text"`
	AppliedAt             *string `gorm:"column:applied_at;type:text"`
	Notes                 string  `gorm:"column:notes;type:text;not null;default:''"`
	CreatedAt             string  `gorm:"column:created_at;type:text;not null"`
}

func (UpdateDecision) TableName() string {
	return "update_decisions"
}
