package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/matriculahub/enroll/internal/models"
	"github.com/matriculahub/enroll/pkg/tool"
	"github.com/matriculahub/enroll/pkg/types"
)

var (
	ErrFormNotFound = errors.New("form not found or inactive")
	ErrNotFound     = errors.New("submission not found")
)

// Service covers the submission lifecycle around the payment pipeline:
// public create, lookup, and the admin listing endpoint.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

type CreateRequest struct {
	FormID string         `json:"form_id"`
	Data   types.FormData `json:"data"`
}

// Create stores a public form submission. Payment status starts PENDING when
// the form charges for enrollment, NOT_APPLICABLE otherwise.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*models.Submission, error) {
	var form models.Form
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", req.FormID, true).
		First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to load form: %w", err)
	}

	dataJSON, err := json.Marshal(req.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission data: %w", err)
	}

	sub := &models.Submission{
		ID:            tool.GenerateUUIDV7(),
		TenantID:      form.TenantID,
		FormID:        form.ID,
		Data:          datatypes.JSON(dataJSON),
		PaymentStatus: types.PaymentStatusNotApplicable,
	}
	if form.PaymentRequired {
		sub.PaymentStatus = types.PaymentStatusPending
		sub.PaymentAmount = form.PaymentAmount
	}

	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	return sub, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Submission, error) {
	var sub models.Submission
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// filtersAnd combines multiple CommonFilter into a single clause.Expression
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

type ScanRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanResponse struct {
	Items []*models.Submission `json:"items"`
	Total int64                `json:"total"`
}

// Scan implements the paginated admin listing with filters.
func (s *Service) Scan(ctx context.Context, req *ScanRequest) (*ScanResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Submission{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}

	var rows []*models.Submission
	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if req.SortBy == "" {
		req.SortBy = "created_at"
	}
	q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	return &ScanResponse{Items: rows, Total: total}, nil
}
