package models

import (
	"time"

	"gorm.io/gorm"
)

// Methodology is an approved quantification methodology a project follows
// (e.g. VM0007 REDD+ Framework). Referenced by projects by name.
type Methodology struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;size:200;not null" json:"name"`
	Category    string         `gorm:"size:100;index" json:"category"` // ProjectCategory name
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Methodology) TableName() string { return "methodologies" }
