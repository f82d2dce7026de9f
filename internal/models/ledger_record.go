package models

import "time"

// Ledger record statuses.
const (
	LedgerPending  = "pending"
	LedgerAnchored = "anchored"
)

// LedgerRecord is a receipt from the simulated blockchain sink. Records are
// created when a verification resolves or a credit changes state, then
// anchored (a deterministic transaction hash is computed over the payload)
// either inline or through the async queue.
type LedgerRecord struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ReceiptID  string     `gorm:"uniqueIndex;size:36;not null" json:"receipt_id"`
	EntityType string     `gorm:"size:50;index;not null" json:"entity_type"`
	EntityID   string     `gorm:"size:64;index;not null" json:"entity_id"`
	Action     string     `gorm:"size:100;not null" json:"action"`
	Payload    string     `gorm:"type:text" json:"payload"` // canonical JSON
	TxHash     string     `gorm:"size:64;index" json:"tx_hash"`
	Status     string     `gorm:"size:20;default:pending;index" json:"status"`
	AnchoredAt *time.Time `json:"anchored_at,omitempty"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (LedgerRecord) TableName() string { return "ledger_records" }
