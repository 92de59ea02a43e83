package kv

import (
	"time"

	"gorm.io/datatypes"
)

// Entry is one collection row: the whole serialized collection under its key.
type Entry struct {
	Key       string         `gorm:"column:key;primaryKey;size:64"`
	Value     datatypes.JSON `gorm:"column:value;not null"`
	Version   int64          `gorm:"column:version;not null;default:1"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "kv_entries"
}
