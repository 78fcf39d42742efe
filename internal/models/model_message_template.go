package models

import "time"

const (
	TemplateTriggerPaymentApproved      = "payment_approved"
	TemplateTriggerPaymentApprovedEmail = "payment_approved_email"
)

// MessageTemplate holds a notification body with {{var}} placeholders,
// selected by trigger key. A row scoped to a specific form wins over the
// form-agnostic global row.
type MessageTemplate struct {
	ID         string    `gorm:"column:id;primary_key;type:uuid" json:"id"`
	TriggerKey string    `gorm:"column:trigger_key;type:varchar(64);not null;index" json:"trigger_key"`
	FormID     *string   `gorm:"column:form_id;type:uuid;index" json:"form_id"`
	Title      string    `gorm:"column:title;type:varchar(255)" json:"title"`
	Content    string    `gorm:"column:content;type:text;not null" json:"content"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (MessageTemplate) TableName() string { return "message_template" }
