package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentEvent is the append-only idempotency ledger for inbound provider
// webhooks. The (provider_id, event_id) pair is unique at the schema level;
// duplicate deliveries racing each other resolve on the constraint, not in
// application code. ProcessedAt stays null until reconciliation and fan-out
// finish.
type PaymentEvent struct {
	ID           string         `gorm:"column:id;primary_key;type:uuid" json:"id"`
	ProviderID   string         `gorm:"column:provider_id;type:varchar(64);not null;uniqueIndex:unique_provider_event,priority:1" json:"provider_id"`
	EventID      string         `gorm:"column:event_id;type:varchar(128);not null;uniqueIndex:unique_provider_event,priority:2" json:"event_id"`
	EventType    string         `gorm:"column:event_type;type:varchar(64)" json:"event_type"`
	Payload      datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`
	SubmissionID *string        `gorm:"column:submission_id;type:uuid;index" json:"submission_id"`
	ProcessedAt  *time.Time     `gorm:"column:processed_at;default:null" json:"processed_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (PaymentEvent) TableName() string { return "payment_event" }
