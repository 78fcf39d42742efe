package models

import (
	"time"

	"gorm.io/datatypes"
)

// Form is a tenant-defined enrollment form. Fields holds the form-builder
// schema as published to the public renderer; the backend only reads the
// payment settings from it.
type Form struct {
	ID       string `gorm:"column:id;primary_key;type:uuid" json:"id"`
	TenantID string `gorm:"column:tenant_id;type:uuid;not null;index" json:"tenant_id"`
	Title    string `gorm:"column:title;type:varchar(255);not null" json:"title"`
	// CourseName is surfaced to notification templates as {{curso}}.
	CourseName      string         `gorm:"column:course_name;type:varchar(255)" json:"course_name"`
	Fields          datatypes.JSON `gorm:"column:fields;type:jsonb;default:'[]'" json:"fields"`
	PaymentRequired bool           `gorm:"column:payment_required;not null;default:false" json:"payment_required"`
	PaymentAmount   float64        `gorm:"column:payment_amount;type:numeric(10,2);default:0" json:"payment_amount"`
	IsActive        bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (Form) TableName() string { return "form" }
