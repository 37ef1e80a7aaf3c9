package model

// DictionaryEntry folds the category/type/classification code books into a
// single table keyed by kind.
type DictionaryEntry struct {
	Kind string `gorm:"column:kind;primaryKey"`
	Code string `gorm:"column:code;primaryKey"`
	Name string `gorm:"column:name;type:text;not null"`
}

func (DictionaryEntry) TableName() string {
	return "dictionary_entries"
}
