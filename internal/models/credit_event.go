package models

import "time"

// Credit lifecycle event types.
const (
	CreditEventIssued      = "issued"
	CreditEventRetired     = "retired"
	CreditEventTransferred = "transferred"
)

// CreditEvent is an immutable lifecycle record appended alongside every
// credit mutation, so a batch's ownership history can be reconstructed
// without consulting the activity log.
type CreditEvent struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreditID     uint      `gorm:"index;not null" json:"credit_id"`
	SerialNumber string    `gorm:"size:64;index;not null" json:"serial_number"`
	EventType    string    `gorm:"size:20;not null" json:"event_type"` // issued, retired, transferred
	FromOwnerID  *uint     `json:"from_owner_id,omitempty"`
	ToOwnerID    *uint     `json:"to_owner_id,omitempty"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (CreditEvent) TableName() string { return "credit_events" }
