package models

import "time"

// ActivityLog is an append-only record of state-changing actions across
// entities, driving the dashboard activity feed. Rows are never updated or
// deleted through the API.
type ActivityLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Action     string    `gorm:"size:100;index;not null" json:"action"` // e.g. project_created
	EntityType string    `gorm:"size:50;index;not null" json:"entity_type"`
	EntityID   string    `gorm:"size:64;index;not null" json:"entity_id"`
	UserID     *uint     `gorm:"index" json:"user_id,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
