package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/matriculahub/enroll/internal/models"
	"github.com/matriculahub/enroll/pkg/tool"
)

// Service is the idempotency ledger for inbound webhook events. One row per
// (provider, event id); the pipeline short-circuits on duplicates before any
// submission mutation or notification dispatch.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

type RecordResult struct {
	IsNew   bool
	EventID string
}

// RecordIfNew inserts a ledger row unless one already exists for
// (provider, eventID). Two near-simultaneous duplicate deliveries both pass
// the lookup; the unique constraint on the table resolves the race, and the
// loser is reported as not-new.
func (s *Service) RecordIfNew(ctx context.Context, provider, eventID, eventType string, rawPayload []byte) (*RecordResult, error) {
	var existing models.PaymentEvent
	err := s.db.WithContext(ctx).
		Where("provider_id = ? AND event_id = ?", provider, eventID).
		First(&existing).Error
	if err == nil {
		return &RecordResult{IsNew: false, EventID: existing.ID}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row := &models.PaymentEvent{
		ID:         tool.GenerateUUIDV7(),
		ProviderID: provider,
		EventID:    eventID,
		EventType:  eventType,
		Payload:    datatypes.JSON(rawPayload),
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if isDuplicateKey(err) {
			// lost the race against a concurrent duplicate delivery
			return &RecordResult{IsNew: false, EventID: ""}, nil
		}
		return nil, err
	}
	return &RecordResult{IsNew: true, EventID: row.ID}, nil
}

// MarkProcessed stamps the submission link and completion time. Best-effort:
// a failed stamp is logged, never propagated.
func (s *Service) MarkProcessed(ctx context.Context, eventRecordID, submissionID string) {
	updates := map[string]any{"processed_at": lo.ToPtr(time.Now())}
	if submissionID != "" {
		updates["submission_id"] = submissionID
	}
	if err := s.db.WithContext(ctx).
		Model(&models.PaymentEvent{}).
		Where("id = ?", eventRecordID).
		Updates(updates).Error; err != nil {
		s.log.Errorw("ledger_mark_processed_failed", "event_record_id", eventRecordID, "error", err.Error())
	}
}

// Get loads a ledger row by record id.
func (s *Service) Get(ctx context.Context, eventRecordID string) (*models.PaymentEvent, error) {
	var row models.PaymentEvent
	if err := s.db.WithContext(ctx).Where("id = ?", eventRecordID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Unprocessed lists events recorded before the cutoff that never completed
// reconciliation. The worker sweep re-enqueues these on startup so a crash
// between ledger insert and fan-out does not strand the event forever.
func (s *Service) Unprocessed(ctx context.Context, olderThan time.Time, limit int) ([]*models.PaymentEvent, error) {
	var rows []*models.PaymentEvent
	err := s.db.WithContext(ctx).
		Where("processed_at IS NULL AND created_at < ?", olderThan).
		Order("created_at asc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// pgx surfaces SQLSTATE 23505 for unique violations
	return err != nil && strings.Contains(err.Error(), "23505")
}
