package models

import "time"

// Tenant is an enrollment unit ("polo") owning its own forms and submissions.
type Tenant struct {
	ID        string    `gorm:"column:id;primary_key;type:uuid" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Slug      string    `gorm:"column:slug;type:varchar(128);not null;uniqueIndex" json:"slug"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Tenant) TableName() string { return "tenant" }
