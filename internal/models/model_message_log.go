package models

import "time"

type MessageChannel string

const (
	MessageChannelWhatsApp MessageChannel = "whatsapp"
	MessageChannelEmail    MessageChannel = "email"
)

type MessageLogStatus string

const (
	MessageLogStatusSent   MessageLogStatus = "SENT"
	MessageLogStatusFailed MessageLogStatus = "FAILED"
)

// MessageLog is the append-only delivery audit for the chat and email
// channels, one row per attempted recipient. Write-only from the pipeline;
// operators read it to see what went out.
type MessageLog struct {
	ID           string           `gorm:"column:id;primary_key;type:uuid" json:"id"`
	SubmissionID string           `gorm:"column:submission_id;type:uuid;not null;index" json:"submission_id"`
	Channel      MessageChannel   `gorm:"column:channel;type:varchar(32);not null" json:"channel"`
	Recipient    string           `gorm:"column:recipient;type:varchar(255);not null" json:"recipient"`
	Content      string           `gorm:"column:content;type:text" json:"content"`
	Status       MessageLogStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	// Error is truncated before persisting to bound log size.
	Error     *string    `gorm:"column:error;type:varchar(512)" json:"error"`
	SentAt    *time.Time `gorm:"column:sent_at;default:null" json:"sent_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (MessageLog) TableName() string { return "message_log" }
