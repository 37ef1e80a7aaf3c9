package model

// CampaignSnapshot rows are written once per (campaign, sku) at campaign
// creation and never updated afterwards.
type CampaignSnapshot struct {
	CampaignID         uint64 `gorm:"column:campaign_id;primaryKey;autoIncrement:false"`
	SKU                string `gorm:"column:sku;primaryKey"`
	Description        string `gorm:"column:description;type:text;not null"`
	CategoryCode       string `gorm:"column:category_code;type:text;not null"`
	TypeCode           string `gorm:"column:type_code;type:text;not null"`
	ClassificationCode string `gorm:"column:classification_code;type:text;not null"`
}

func (CampaignSnapshot) TableName() string {
	return "campaign_snapshots"
}
