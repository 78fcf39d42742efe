package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/matriculahub/enroll/internal/app/service/credential"
	"github.com/matriculahub/enroll/internal/app/service/ledger"
	"github.com/matriculahub/enroll/internal/app/service/notify"
	"github.com/matriculahub/enroll/internal/models"
	"github.com/matriculahub/enroll/internal/platform/mercadopago"
	"github.com/matriculahub/enroll/pkg/logctx"
	"github.com/matriculahub/enroll/pkg/types"
)

var ErrSubmissionNotFound = errors.New("submission not found for external reference")

// PaymentFetcher is the provider-facing surface the reconciler needs;
// satisfied by the mercadopago client and by fakes in tests.
type PaymentFetcher interface {
	GetPayment(ctx context.Context, accessToken, paymentID string) (*mercadopago.Payment, error)
}

// TokenSource resolves the provider access token.
type TokenSource interface {
	AccessToken(ctx context.Context, tenantID string) (string, error)
}

// ProcessMarker stamps ledger rows once reconciliation finishes.
type ProcessMarker interface {
	MarkProcessed(ctx context.Context, eventRecordID, submissionID string)
}

// ApprovedDispatcher runs the notification fan-out for a paid submission.
type ApprovedDispatcher interface {
	DispatchApproved(ctx context.Context, sub *models.Submission)
}

// SubmissionStore is the persistence surface for the reconciled submission.
type SubmissionStore interface {
	ByID(ctx context.Context, id string) (*models.Submission, error)
	UpdatePayment(ctx context.Context, id string, updates map[string]any) error
}

type gormStore struct{ db *gorm.DB }

func (g *gormStore) ByID(ctx context.Context, id string) (*models.Submission, error) {
	var sub models.Submission
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (g *gormStore) UpdatePayment(ctx context.Context, id string, updates map[string]any) error {
	return g.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Service reconciles a webhook-announced payment against the stored
// submission. It never trusts the webhook payload: the payment is re-fetched
// from the provider by id and that record is the only source of truth.
type Service struct {
	store    SubmissionStore
	creds    TokenSource
	provider PaymentFetcher
	events   ProcessMarker
	dispatch ApprovedDispatcher
	log      *zap.SugaredLogger
}

func NewService(db *gorm.DB, creds *credential.Service, provider *mercadopago.Client, led *ledger.Service, notif *notify.Service, log *zap.SugaredLogger) *Service {
	return &Service{
		store:    &gormStore{db: db},
		creds:    creds,
		provider: provider,
		events:   led,
		dispatch: notif,
		log:      log,
	}
}

type Result struct {
	SubmissionID string
	Status       types.PaymentStatus
	FanOutRan    bool
}

// Reconcile fetches the payment, updates the submission and, when the
// payment is approved, triggers the notification fan-out. eventRecordID may
// be empty (direct invocations outside the webhook path).
func (s *Service) Reconcile(ctx context.Context, eventRecordID, paymentID string) (*Result, error) {
	log := logctx.FromCtx(ctx, s.log).With("payment_id", paymentID)

	// The tenant is unknown before the payment is fetched, so only the
	// global -> env chain applies here.
	token, err := s.creds.AccessToken(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve credentials: %w", err)
	}

	payment, err := s.provider.GetPayment(ctx, token, paymentID)
	if err != nil {
		// Left for the provider's own webhook retry policy; no sync retry.
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}

	if payment.ExternalReference == "" {
		log.Warnw("reconcile_missing_external_reference")
		return nil, ErrSubmissionNotFound
	}

	sub, err := s.store.ByID(ctx, payment.ExternalReference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnw("reconcile_submission_not_found", "external_reference", payment.ExternalReference)
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}

	status := types.PaymentStatusFromProvider(payment.Status)
	if status == types.PaymentStatusPending && payment.Status != "pending" {
		log.Warnw("reconcile_unmapped_provider_status", "provider_status", payment.Status)
	}

	if err := s.applyUpdate(ctx, sub, payment, status); err != nil {
		return nil, err
	}

	if eventRecordID != "" {
		s.events.MarkProcessed(ctx, eventRecordID, sub.ID)
	}

	result := &Result{SubmissionID: sub.ID, Status: status}
	if status == types.PaymentStatusPaid {
		// Fan-out failures never roll back the reconciliation.
		s.dispatch.DispatchApproved(ctx, sub)
		result.FanOutRan = true
	}

	log.Infow("reconcile_done", "submission_id", sub.ID, "status", status)
	return result, nil
}

// applyUpdate writes the authoritative state onto the submission: status,
// payment date (only when PAID), the provider's transaction amount (which
// overrides any client-supplied amount) and the provider metadata, merged
// into the existing bag without clobbering unrelated keys.
func (s *Service) applyUpdate(ctx context.Context, sub *models.Submission, payment *mercadopago.Payment, status types.PaymentStatus) error {
	metaJSON, err := json.Marshal(mergeProviderMetadata(sub.MetadataMap(), payment))
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	updates := map[string]any{
		"payment_status": status,
		"payment_amount": payment.TransactionAmount,
		"payment_date":   nil,
		"metadata":       datatypes.JSON(metaJSON),
	}
	if status == types.PaymentStatusPaid {
		updates["payment_date"] = lo.ToPtr(paymentDate(payment))
	}

	if err := s.store.UpdatePayment(ctx, sub.ID, updates); err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}

	sub.PaymentStatus = status
	sub.PaymentAmount = payment.TransactionAmount
	sub.Metadata = datatypes.JSON(metaJSON)
	if status == types.PaymentStatusPaid {
		sub.PaymentDate = lo.ToPtr(paymentDate(payment))
	} else {
		sub.PaymentDate = nil
	}
	return nil
}

// mergeProviderMetadata stamps the provider fields into the existing bag
// without touching unrelated keys.
func mergeProviderMetadata(meta map[string]any, payment *mercadopago.Payment) map[string]any {
	meta["payment_id"] = fmt.Sprintf("%d", payment.ID)
	meta["payment_status"] = payment.Status
	meta["payment_status_detail"] = payment.StatusDetail
	meta["payment_method"] = payment.PaymentMethodID
	meta["payment_type"] = payment.PaymentTypeID
	return meta
}

func paymentDate(p *mercadopago.Payment) time.Time {
	if p.DateApproved != nil {
		if t, err := time.Parse(time.RFC3339, *p.DateApproved); err == nil {
			return t
		}
	}
	return time.Now()
}
