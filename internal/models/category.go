package models

import (
	"time"

	"gorm.io/gorm"
)

// ProjectCategory classifies projects (forestry, renewable energy, ...).
// Projects reference categories by name; referential integrity is enforced
// by the project service at write time.
type ProjectCategory struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Color       string         `gorm:"size:20" json:"color"` // hex color for the map/dashboard
	Description string         `gorm:"size:500" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ProjectCategory) TableName() string { return "project_categories" }
