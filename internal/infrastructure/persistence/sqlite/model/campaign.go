package model

type Campaign struct {
	CampaignID           uint64 `gorm:"column:campaign_id;primaryKey;autoIncrement"`
	Name                 string `gorm:"column:name;type:text;not null"`
	StartsAt             string `gorm:"column:starts_at;type:text;not null"`
	EndsAt               string `gorm:"column:ends_at;type:text;not null"`
	CategoryTarget       string `gorm:"column:category_target;type:text;not null;default:''"`
	TypeTarget           string `gorm:"column:type_target;type:text;not null;default:''"`
	ClassificationTarget string `gorm:"column:classification_target;type:text;not null;default:''"`
	Active               bool   `gorm:"column:active;not null;default:0"`
	CreatedAt            string `gorm:"column:created_at;type:text;not null"`
}

func (Campaign) TableName() string {
	return "campaigns"
}
