package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project represents a carbon project registered with the registry.
//
// ProjectID is the stable business key (e.g. KEN-2023-0045) used by
// verifications and credits to reference the project; it is assigned at
// creation and never changes. Status transitions are governed by
// pkg/workflows (draft → registered → verified|rejected).
type Project struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ProjectID   string `gorm:"uniqueIndex;size:30;not null" json:"project_id"`
	Name        string `gorm:"size:200;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:100;index" json:"category"` // ProjectCategory name
	Methodology string `gorm:"size:200" json:"methodology"`    // Methodology name
	Status      string `gorm:"size:20;default:draft" json:"status"`
	Country     string `gorm:"size:3" json:"country"` // ISO alpha-3, encoded in ProjectID
	// EstimatedReduction is the projected emissions reduction in tCO2e.
	EstimatedReduction int            `gorm:"default:0" json:"estimated_reduction"`
	Location           datatypes.JSON `json:"location"` // GeoJSON geometry for the map view
	DeveloperID        uint           `gorm:"index" json:"developer_id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }
