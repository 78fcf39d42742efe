package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/matriculahub/enroll/internal/app/service/credential"
	"github.com/matriculahub/enroll/internal/models"
	"github.com/matriculahub/enroll/internal/platform/mercadopago"
	"github.com/matriculahub/enroll/pkg/logctx"
	"github.com/matriculahub/enroll/pkg/types"
)

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrNotPending         = errors.New("submission is not awaiting payment")
	ErrAmountMismatch     = errors.New("submission amount does not match the form amount")
)

// Service builds provider checkout sessions (preferences) for pending
// submissions.
type Service struct {
	db       *gorm.DB
	creds    *credential.Service
	provider *mercadopago.Client
	log      *zap.SugaredLogger
}

func NewService(db *gorm.DB, creds *credential.Service, provider *mercadopago.Client, log *zap.SugaredLogger) *Service {
	return &Service{db: db, creds: creds, provider: provider, log: log}
}

type CreateResult struct {
	PreferenceID string `json:"preference_id"`
	InitPoint    string `json:"init_point"`
}

// Create opens a checkout session for the submission. The amount charged is
// the form's configured amount, re-validated here so a tampered client
// cannot change it; external_reference is the submission id, which is how
// the webhook correlates the payment back.
func (s *Service) Create(ctx context.Context, submissionID string) (*CreateResult, error) {
	log := logctx.FromCtx(ctx, s.log).With("submission_id", submissionID)

	var sub models.Submission
	if err := s.db.WithContext(ctx).Where("id = ?", submissionID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	if sub.PaymentStatus != types.PaymentStatusPending {
		return nil, ErrNotPending
	}

	var form models.Form
	if err := s.db.WithContext(ctx).Where("id = ?", sub.FormID).First(&form).Error; err != nil {
		return nil, fmt.Errorf("failed to load form: %w", err)
	}
	if form.PaymentAmount <= 0 || sub.PaymentAmount != form.PaymentAmount {
		return nil, ErrAmountMismatch
	}

	token, err := s.creds.AccessToken(ctx, sub.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve credentials: %w", err)
	}

	appURL, err := s.creds.AppURL()
	if err != nil {
		return nil, err
	}

	payerEmail, _ := sub.FormData().Email()
	pref, err := s.provider.CreatePreference(ctx, token, &mercadopago.PreferenceRequest{
		Items: []mercadopago.PreferenceItem{{
			Title:     form.Title,
			Quantity:  1,
			UnitPrice: form.PaymentAmount,
		}},
		ExternalReference: sub.ID,
		NotificationURL:   appURL + "/webhooks/mercadopago",
		BackURLs: mercadopago.PreferenceBackURLs{
			Success: appURL + "/inscricao/" + sub.ID + "/confirmacao",
			Pending: appURL + "/inscricao/" + sub.ID + "/pendente",
			Failure: appURL + "/inscricao/" + sub.ID + "/erro",
		},
		PayerEmail: payerEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout preference: %w", err)
	}

	meta := sub.MetadataMap()
	meta["preference_id"] = pref.ID
	metaJSON, _ := json.Marshal(meta)
	if err := s.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", sub.ID).
		Updates(map[string]any{
			"payment_reference": pref.ID,
			"metadata":          datatypes.JSON(metaJSON),
		}).Error; err != nil {
		return nil, fmt.Errorf("failed to store preference id: %w", err)
	}

	log.Infow("checkout_preference_created", "preference_id", pref.ID)
	return &CreateResult{PreferenceID: pref.ID, InitPoint: pref.InitPoint}, nil
}
