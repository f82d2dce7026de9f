package models

import "time"

// Statistics is the derived dashboard snapshot. It is recomputed from the
// project, verification and credit tables; the only independently written
// field is LastUpdated.
type Statistics struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	TotalProjects       int64     `json:"total_projects"`
	VerifiedProjects    int64     `json:"verified_projects"`
	PendingVerification int64     `json:"pending_verification"`
	TotalCredits        int64     `json:"total_credits"` // sum of issued quantities
	LastUpdated         time.Time `json:"last_updated"`
}

func (Statistics) TableName() string { return "statistics" }
