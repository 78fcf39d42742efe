package handlers

import (
	"github.com/matriculahub/enroll/internal/app/service/checkout"
	"github.com/matriculahub/enroll/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespCheckout wraps the checkout result in the standard envelope.
type RespCheckout struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    checkout.CreateResult    `json:"data"`
}

// WebhookPayload documents the provider notification body.
type WebhookPayload struct {
	Type string `json:"type" example:"payment"`
	Data struct {
		ID string `json:"id" example:"12345678901"`
	} `json:"data"`
}

// RespWebhookReceived documents the webhook acknowledgment.
type RespWebhookReceived struct {
	Received bool   `json:"received" example:"true"`
	Message  string `json:"message,omitempty" example:"Already processed"`
}
