package model

type MasterEntry struct {
	SKU                string `gorm:"column:sku;primaryKey"`
	Description        string `gorm:"column:description;type:text;not null"`
	CategoryCode       string `gorm:"column:category_code;type:text;not null"`
	TypeCode           string `gorm:"column:type_code;type:text;not null"`
	ClassificationCode string `gorm:"column:classification_code;type:text;not null"`
	UpdatedAt          string `gorm:"column:updated_at;type:text;not null"`
}

func (MasterEntry) TableName() string {
	return "master_entries"
}
