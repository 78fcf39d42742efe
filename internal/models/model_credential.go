package models

import "time"

// PaymentGatewayConfig is the operator-managed deployment-wide provider
// credential set. Written by the settings UI, read-only here. An inactive
// row counts as absent for credential resolution.
type PaymentGatewayConfig struct {
	ID            string    `gorm:"column:id;primary_key;type:uuid" json:"id"`
	AccessToken   string    `gorm:"column:access_token;type:text;not null" json:"access_token"`
	PublicKey     *string   `gorm:"column:public_key;type:text" json:"public_key"`
	WebhookSecret *string   `gorm:"column:webhook_secret;type:text" json:"webhook_secret"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsProduction  bool      `gorm:"column:is_production;not null;default:false" json:"is_production"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (PaymentGatewayConfig) TableName() string { return "payment_gateway_config" }

// TenantPaymentConfig is the tenant-scoped credential variant, consulted
// only when no active global config exists.
type TenantPaymentConfig struct {
	ID            string    `gorm:"column:id;primary_key;type:uuid" json:"id"`
	TenantID      string    `gorm:"column:tenant_id;type:uuid;not null;index" json:"tenant_id"`
	AccessToken   string    `gorm:"column:access_token;type:text;not null" json:"access_token"`
	PublicKey     *string   `gorm:"column:public_key;type:text" json:"public_key"`
	WebhookSecret *string   `gorm:"column:webhook_secret;type:text" json:"webhook_secret"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsProduction  bool      `gorm:"column:is_production;not null;default:false" json:"is_production"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (TenantPaymentConfig) TableName() string { return "tenant_payment_config" }

// ChatGatewayConfig is the stored WhatsApp gateway endpoint (Evolution API
// shape: base URL + instance + apikey).
type ChatGatewayConfig struct {
	ID        string    `gorm:"column:id;primary_key;type:uuid" json:"id"`
	BaseURL   string    `gorm:"column:base_url;type:varchar(512);not null" json:"base_url"`
	Instance  string    `gorm:"column:instance;type:varchar(128);not null" json:"instance"`
	APIKey    string    `gorm:"column:api_key;type:text;not null" json:"api_key"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ChatGatewayConfig) TableName() string { return "chat_gateway_config" }

// OutboundWebhookConfig is the LMS enrollment webhook target.
type OutboundWebhookConfig struct {
	ID          string    `gorm:"column:id;primary_key;type:uuid" json:"id"`
	URL         string    `gorm:"column:url;type:varchar(1024);not null" json:"url"`
	BearerToken *string   `gorm:"column:bearer_token;type:text" json:"bearer_token"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (OutboundWebhookConfig) TableName() string { return "outbound_webhook_config" }
