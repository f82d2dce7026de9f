package models

import "time"

// Credit statuses.
const (
	CreditAvailable   = "available"
	CreditRetired     = "retired"
	CreditTransferred = "transferred"
)

// CarbonCredit is a batch of issued carbon credits tied to a project.
//
// SerialNumber format: CR-<projectId>-<vintage>-<vintage+1>-<rand4>. The
// random suffix is not collision-free by construction; uniqueness is enforced
// by the database constraint, with regeneration on conflict.
type CarbonCredit struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	SerialNumber   string     `gorm:"uniqueIndex;size:64;not null" json:"serial_number"`
	ProjectID      string     `gorm:"size:30;index;not null" json:"project_id"` // Project business key
	Vintage        string     `gorm:"size:4;not null" json:"vintage"`           // year the batch represents
	Quantity       int        `gorm:"not null" json:"quantity"`                 // tCO2e, > 0
	Status         string     `gorm:"size:20;default:available;index" json:"status"`
	OwnerID        uint       `gorm:"index;not null" json:"owner_id"`
	IssuanceDate   time.Time  `gorm:"not null" json:"issuance_date"`
	RetirementDate *time.Time `json:"retirement_date,omitempty"` // set iff status = retired
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (CarbonCredit) TableName() string { return "carbon_credits" }
