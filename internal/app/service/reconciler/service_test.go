package reconciler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/matriculahub/enroll/internal/models"
	"github.com/matriculahub/enroll/internal/platform/mercadopago"
	"github.com/matriculahub/enroll/pkg/types"
)

type fakeStore struct {
	sub     *models.Submission
	updates map[string]any
}

func (f *fakeStore) ByID(_ context.Context, id string) (*models.Submission, error) {
	if f.sub != nil && f.sub.ID == id {
		return f.sub, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) UpdatePayment(_ context.Context, _ string, updates map[string]any) error {
	f.updates = updates
	return nil
}

type fakeTokens struct{}

func (fakeTokens) AccessToken(context.Context, string) (string, error) { return "APP_USR-token", nil }

type fakeFetcher struct {
	payment  *mercadopago.Payment
	gotToken string
	gotID    string
}

func (f *fakeFetcher) GetPayment(_ context.Context, token, paymentID string) (*mercadopago.Payment, error) {
	f.gotToken = token
	f.gotID = paymentID
	return f.payment, nil
}

type fakeMarker struct{ recID, subID string }

func (f *fakeMarker) MarkProcessed(_ context.Context, rec, sub string) {
	f.recID, f.subID = rec, sub
}

type fakeDispatcher struct{ subs []*models.Submission }

func (f *fakeDispatcher) DispatchApproved(_ context.Context, s *models.Submission) {
	f.subs = append(f.subs, s)
}

func testReconciler(st *fakeStore, f *fakeFetcher, mk *fakeMarker, dp *fakeDispatcher) *Service {
	return &Service{
		store:    st,
		creds:    fakeTokens{},
		provider: f,
		events:   mk,
		dispatch: dp,
		log:      zap.NewNop().Sugar(),
	}
}

func pendingSubmission() *models.Submission {
	return &models.Submission{
		ID:            "sub-1",
		TenantID:      "tenant-1",
		PaymentStatus: types.PaymentStatusPending,
		PaymentAmount: 150,
		Metadata:      datatypes.JSON(`{"preference_id":"pref-1"}`),
	}
}

func TestReconcile_ApprovedMarksPaidAndFansOut(t *testing.T) {
	approved := "2026-03-15T10:30:00Z"
	st := &fakeStore{sub: pendingSubmission()}
	f := &fakeFetcher{payment: &mercadopago.Payment{
		ID:                12345,
		Status:            "approved",
		TransactionAmount: 150,
		ExternalReference: "sub-1",
		DateApproved:      &approved,
	}}
	mk := &fakeMarker{}
	dp := &fakeDispatcher{}

	res, err := testReconciler(st, f, mk, dp).Reconcile(context.Background(), "rec-1", "12345")
	require.NoError(t, err)
	require.Equal(t, "sub-1", res.SubmissionID)
	require.Equal(t, types.PaymentStatusPaid, res.Status)
	require.True(t, res.FanOutRan)

	require.Equal(t, "APP_USR-token", f.gotToken)
	require.Equal(t, "12345", f.gotID)

	require.Equal(t, types.PaymentStatusPaid, st.updates["payment_status"])
	require.Equal(t, float64(150), st.updates["payment_amount"])
	date, ok := st.updates["payment_date"].(*time.Time)
	require.True(t, ok)
	require.Equal(t, time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC), *date)

	require.Equal(t, "rec-1", mk.recID)
	require.Equal(t, "sub-1", mk.subID)

	require.Len(t, dp.subs, 1)
	require.Equal(t, types.PaymentStatusPaid, dp.subs[0].PaymentStatus)
	require.NotNil(t, dp.subs[0].PaymentDate)
}

func TestReconcile_RejectedCancelsWithoutFanOut(t *testing.T) {
	st := &fakeStore{sub: pendingSubmission()}
	f := &fakeFetcher{payment: &mercadopago.Payment{
		ID:                12345,
		Status:            "rejected",
		TransactionAmount: 150,
		ExternalReference: "sub-1",
	}}
	dp := &fakeDispatcher{}

	res, err := testReconciler(st, f, &fakeMarker{}, dp).Reconcile(context.Background(), "rec-1", "12345")
	require.NoError(t, err)
	require.Equal(t, types.PaymentStatusCancelled, res.Status)
	require.False(t, res.FanOutRan)

	require.Equal(t, types.PaymentStatusCancelled, st.updates["payment_status"])
	require.Nil(t, st.updates["payment_date"])
	require.Empty(t, dp.subs)
	require.Nil(t, st.sub.PaymentDate)
}

func TestReconcile_MissingExternalReference(t *testing.T) {
	f := &fakeFetcher{payment: &mercadopago.Payment{ID: 12345, Status: "approved"}}

	_, err := testReconciler(&fakeStore{}, f, &fakeMarker{}, &fakeDispatcher{}).
		Reconcile(context.Background(), "rec-1", "12345")
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestReconcile_UnknownSubmission(t *testing.T) {
	f := &fakeFetcher{payment: &mercadopago.Payment{
		ID:                12345,
		Status:            "approved",
		ExternalReference: "ghost",
	}}

	_, err := testReconciler(&fakeStore{sub: pendingSubmission()}, f, &fakeMarker{}, &fakeDispatcher{}).
		Reconcile(context.Background(), "rec-1", "12345")
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestMergeProviderMetadata_PreservesUnrelatedKeys(t *testing.T) {
	existing := map[string]any{"preference_id": "pref-1", "utm_source": "facebook"}
	payment := &mercadopago.Payment{
		ID:              12345,
		Status:          "approved",
		StatusDetail:    "accredited",
		PaymentMethodID: "pix",
		PaymentTypeID:   "bank_transfer",
	}

	got := mergeProviderMetadata(existing, payment)
	require.Equal(t, "pref-1", got["preference_id"])
	require.Equal(t, "facebook", got["utm_source"])
	require.Equal(t, "12345", got["payment_id"])
	require.Equal(t, "approved", got["payment_status"])
	require.Equal(t, "accredited", got["payment_status_detail"])
	require.Equal(t, "pix", got["payment_method"])
	require.Equal(t, "bank_transfer", got["payment_type"])
}

func TestPaymentDate_UsesProviderApprovalTime(t *testing.T) {
	approved := "2026-03-15T10:30:00Z"
	p := &mercadopago.Payment{DateApproved: &approved}

	got := paymentDate(p)
	require.Equal(t, time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC), got)
}

func TestPaymentDate_FallsBackToNow(t *testing.T) {
	before := time.Now()
	got := paymentDate(&mercadopago.Payment{})
	require.False(t, got.Before(before))
}
