package model

type ScanEvent struct {
	ScanID                      uint64  `gorm:"column:scan_id;primaryKey;autoIncrement"`
	CampaignID                  uint64  `gorm:"column:campaign_id;not null;index"`
	SKU                         string  `gorm:"column:sku;type:text;not null;index"`
	Branch                      string  `gorm:"column:branch;type:text;not null;default:''"`
	SubmitterEmail              string  `gorm:"column:submitter_email;type:text;not null;default:''"`
	Status                      string  `gorm:"column:status;type:text;not null"`
	SuggestedCategoryCode       *string `gorm:"column:suggested_category_code;type:text"`
	SuggestedTypeCode           *string `gorm:"column:suggested_type_code;type:text"`
	SuggestedClassificationCode *string `gorm:"column:suggested_classification_code;type:text"`
	AssumedCategoryCode         string  `gorm:"column:assumed_category_code;type:text;not null;default:''"`
	AssumedTypeCode             string  `gorm:"column:assumed_type_code;type:text;not null;default:''"`
	AssumedClassificationCode   string  `gorm:"column:assumed_classification_code;type:text;not null;default:''"`
	Timestamp                   string  `gorm:"column:ts;type:text;not null"`
}

func (ScanEvent) TableName() string {
	return "scan_events"
}
