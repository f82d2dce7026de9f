package models

import "time"

// Verification statuses.
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// VerificationStage is one step in the ordered review sequence a project
// passes through. Stages are reference data seeded at boot and managed by
// admins; SortOrder values define the pipeline order.
type VerificationStage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	SortOrder   int       `gorm:"column:sort_order;uniqueIndex;not null" json:"order"`
	Description string    `gorm:"size:500" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (VerificationStage) TableName() string { return "verification_stages" }

// ProjectVerification tracks a project's movement through the verification
// pipeline toward a terminal approved/rejected outcome. While pending, the
// current stage advances monotonically along the stage order; once resolved
// no further stage or status changes are permitted.
type ProjectVerification struct {
	ID                      uint               `gorm:"primaryKey" json:"id"`
	ProjectID               string             `gorm:"size:30;index;not null" json:"project_id"` // Project business key
	CurrentStageID          uint               `gorm:"index;not null" json:"current_stage_id"`
	CurrentStage            *VerificationStage `gorm:"foreignKey:CurrentStageID" json:"current_stage,omitempty"`
	Status                  string             `gorm:"size:20;default:pending;index" json:"status"`
	VerifierID              *uint              `gorm:"index" json:"verifier_id,omitempty"`
	Notes                   string             `gorm:"type:text" json:"notes"`
	SubmittedDate           time.Time          `gorm:"not null" json:"submitted_date"`
	EstimatedCompletionDate *time.Time         `json:"estimated_completion_date,omitempty"`
	CompletedDate           *time.Time         `json:"completed_date,omitempty"`
	// DaysRemaining is derived from EstimatedCompletionDate on read and is
	// never persisted.
	DaysRemaining *int      `gorm:"-" json:"days_remaining,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (ProjectVerification) TableName() string { return "project_verifications" }
