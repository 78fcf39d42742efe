package models

import (
	"encoding/json"
	"time"

	"github.com/matriculahub/enroll/pkg/types"

	"gorm.io/datatypes"
)

// Submission is one applicant's form response and the unit of payment
// reconciliation. Data carries the schema-less answers; Metadata is the
// free-form bag where provider ids/status get stashed by the reconciler.
type Submission struct {
	ID       string `gorm:"column:id;primary_key;type:uuid" json:"id"`
	TenantID string `gorm:"column:tenant_id;type:uuid;not null;index:idx_tenant_created,priority:1" json:"tenant_id"`
	FormID   string `gorm:"column:form_id;type:uuid;not null;index" json:"form_id"`

	Data datatypes.JSON `gorm:"column:data;type:jsonb;not null;default:'{}'" json:"data"`

	PaymentStatus types.PaymentStatus `gorm:"column:payment_status;type:varchar(32);not null;default:'PENDING'" json:"payment_status"`
	PaymentAmount float64             `gorm:"column:payment_amount;type:numeric(10,2);default:0" json:"payment_amount"`
	// PaymentReference is the provider-assigned checkout/preference id.
	PaymentReference *string    `gorm:"column:payment_reference;type:varchar(128);index" json:"payment_reference"`
	PaymentDate      *time.Time `gorm:"column:payment_date;default:null" json:"payment_date"`

	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb;default:'{}'" json:"metadata"`

	CreatedAt time.Time `gorm:"index:idx_tenant_created,priority:2,sort:desc" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Submission) TableName() string { return "submission" }

// FormData decodes the schema-less answers bag. A broken Data column yields
// an empty map rather than an error; callers treat missing fields as absent.
func (s *Submission) FormData() types.FormData {
	d := types.FormData{}
	if s == nil || len(s.Data) == 0 {
		return d
	}
	_ = json.Unmarshal(s.Data, &d)
	return d
}

// MetadataMap decodes the provider metadata bag, empty when unset.
func (s *Submission) MetadataMap() map[string]any {
	m := map[string]any{}
	if s == nil || len(s.Metadata) == 0 {
		return m
	}
	_ = json.Unmarshal(s.Metadata, &m)
	return m
}
