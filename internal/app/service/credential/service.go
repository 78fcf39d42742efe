package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/matriculahub/enroll/internal/models"
	"github.com/matriculahub/enroll/pkg/config"
)

var (
	// ErrNoAccessToken means no active stored config and no env fallback.
	ErrNoAccessToken = errors.New("no mercadopago access token configured")
	// ErrNoAppURL means neither the server nor the public base URL is set.
	ErrNoAppURL = errors.New("app base URL is not configured: set app.base_url (or app.public_base_url) so checkout back_urls and notification_url can be built")
)

// Service resolves provider credentials through the priority chain
// global stored config -> tenant stored config -> environment fallback.
// Lookups run per request; configs are operator-editable at runtime so
// they are never cached.
type Service struct {
	db  *gorm.DB
	cfg *config.Config
	log *zap.SugaredLogger
}

func New(db *gorm.DB, cfg *config.Config, log *zap.SugaredLogger) *Service {
	return &Service{db: db, cfg: cfg, log: log}
}

// AccessToken resolves the active access token. tenantID may be empty (the
// webhook path does not know the tenant before fetching the payment).
func (s *Service) AccessToken(ctx context.Context, tenantID string) (string, error) {
	if g, err := s.globalConfig(ctx); err == nil && g != nil && g.AccessToken != "" {
		return g.AccessToken, nil
	}
	if tenantID != "" {
		if t, err := s.tenantConfig(ctx, tenantID); err == nil && t != nil && t.AccessToken != "" {
			return t.AccessToken, nil
		}
	}
	if s.cfg.MercadoPago.AccessToken != "" {
		return s.cfg.MercadoPago.AccessToken, nil
	}
	return "", ErrNoAccessToken
}

// WebhookSecret resolves the signing secret used by the signature verifier.
// Returns empty when nothing is configured, which makes the verifier skip
// the check.
func (s *Service) WebhookSecret(ctx context.Context) string {
	if g, err := s.globalConfig(ctx); err == nil && g != nil && g.WebhookSecret != nil && *g.WebhookSecret != "" {
		return *g.WebhookSecret
	}
	return s.cfg.MercadoPago.WebhookSecret
}

// AppURL returns the deployment base URL without a trailing slash.
func (s *Service) AppURL() (string, error) {
	u := s.cfg.App.BaseURL
	if u == "" {
		u = s.cfg.App.PublicBaseURL
	}
	if u == "" {
		return "", ErrNoAppURL
	}
	return strings.TrimRight(u, "/"), nil
}

// MaskedToken renders a token for display in settings/diagnostics output.
func MaskedToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return fmt.Sprintf("%s...%s", token[:4], token[len(token)-4:])
}

func (s *Service) globalConfig(ctx context.Context) (*models.PaymentGatewayConfig, error) {
	var row models.PaymentGatewayConfig
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("updated_at desc").
		First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warnw("credential_global_lookup_failed", "error", err.Error())
		}
		return nil, err
	}
	return &row, nil
}

func (s *Service) tenantConfig(ctx context.Context, tenantID string) (*models.TenantPaymentConfig, error) {
	var row models.TenantPaymentConfig
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("updated_at desc").
		First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warnw("credential_tenant_lookup_failed", "tenant_id", tenantID, "error", err.Error())
		}
		return nil, err
	}
	return &row, nil
}
