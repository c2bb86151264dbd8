package models

import (
	"time"

	"gorm.io/datatypes"
)

// StoredRow is one line of the symptom table when it lives in a database.
// Position 0 with IsHeader set carries the column names.
type StoredRow struct {
	ID        uint           `gorm:"primaryKey"`
	Position  int            `gorm:"index;not null"`
	IsHeader  bool           `gorm:"not null;default:false"`
	Cells     datatypes.JSON `gorm:"not null"` // JSON array of strings
	CreatedAt time.Time
}

func (StoredRow) TableName() string { return "symptom_rows" }
