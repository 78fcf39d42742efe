package models

import (
	"time"

	"gorm.io/datatypes"
)

type EnrollmentLogStatus string

const (
	EnrollmentLogStatusDone   EnrollmentLogStatus = "DONE"
	EnrollmentLogStatusFailed EnrollmentLogStatus = "FAILED"
)

// EnrollmentLog records each LMS enrollment webhook attempt with the full
// request and response bodies for replay/debugging. Attempt is always 1
// today; the column exists so a retry sweep can count up without a schema
// change.
type EnrollmentLog struct {
	ID           string              `gorm:"column:id;primary_key;type:uuid" json:"id"`
	SubmissionID string              `gorm:"column:submission_id;type:uuid;not null;index" json:"submission_id"`
	WebhookURL   string              `gorm:"column:webhook_url;type:varchar(1024);not null" json:"webhook_url"`
	RequestBody  datatypes.JSON      `gorm:"column:request_body;type:jsonb" json:"request_body"`
	ResponseBody *string             `gorm:"column:response_body;type:text" json:"response_body"`
	HTTPStatus   *int                `gorm:"column:http_status" json:"http_status"`
	Attempt      int                 `gorm:"column:attempt;not null;default:1" json:"attempt"`
	Status       EnrollmentLogStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	Error        *string             `gorm:"column:error;type:varchar(512)" json:"error"`
	CompletedAt  *time.Time          `gorm:"column:completed_at;default:null" json:"completed_at"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func (EnrollmentLog) TableName() string { return "enrollment_log" }
