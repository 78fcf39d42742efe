package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matriculahub/enroll/internal/app/service/ledger"
	"github.com/matriculahub/enroll/internal/app/service/signature"
	"github.com/matriculahub/enroll/internal/app/worker"
)

type stubSecrets struct{ secret string }

func (s stubSecrets) WebhookSecret(context.Context) string { return s.secret }

type stubLedger struct {
	calls     int
	duplicate bool
}

func (s *stubLedger) RecordIfNew(_ context.Context, _, eventID, _ string, _ []byte) (*ledger.RecordResult, error) {
	s.calls++
	return &ledger.RecordResult{IsNew: !s.duplicate, EventID: "rec-" + eventID}, nil
}

type stubQueue struct{ jobs []worker.Job }

func (s *stubQueue) Enqueue(job worker.Job) error {
	s.jobs = append(s.jobs, job)
	return nil
}

func webhookRouter(secret string, led *stubLedger, q *stubQueue) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhooks/mercadopago",
		ApiPaymentWebhook(signature.New(), stubSecrets{secret: secret}, led, q, zap.NewNop().Sugar()))
	return r
}

func signMP(t *testing.T, secret string, body []byte) string {
	t.Helper()
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, body)
	return fmt.Sprintf("ts=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestPaymentWebhook_AcceptsAndEnqueues(t *testing.T) {
	led := &stubLedger{}
	q := &stubQueue{}
	r := webhookRouter("s3cret", led, q)

	body := []byte(`{"type":"payment","data":{"id":12345}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/mercadopago", bytes.NewReader(body))
	req.Header.Set("x-signature", signMP(t, "s3cret", body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"received":true`)
	require.Equal(t, 1, led.calls)
	require.Len(t, q.jobs, 1)
	require.Equal(t, "12345", q.jobs[0].PaymentID)
	require.Equal(t, "rec-12345", q.jobs[0].EventRecordID)
}

func TestPaymentWebhook_RejectsTamperedBodyBeforeLedger(t *testing.T) {
	led := &stubLedger{}
	q := &stubQueue{}
	r := webhookRouter("s3cret", led, q)

	body := []byte(`{"type":"payment","data":{"id":12345}}`)
	sig := signMP(t, "s3cret", body)
	tampered := []byte(`{"type":"payment","data":{"id":99999}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/mercadopago", bytes.NewReader(tampered))
	req.Header.Set("x-signature", sig)
	req.Header.Set("x-request-id", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "unauthorized")
	require.Contains(t, w.Body.String(), "req-1")
	require.Zero(t, led.calls)
	require.Empty(t, q.jobs)
}

func TestPaymentWebhook_IgnoresNonPaymentEvents(t *testing.T) {
	led := &stubLedger{}
	q := &stubQueue{}
	r := webhookRouter("", led, q)

	body := []byte(`{"type":"chargeback","data":{"id":777}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/mercadopago", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"received":true`)
	require.Zero(t, led.calls)
	require.Empty(t, q.jobs)
}

func TestPaymentWebhook_DuplicateShortCircuits(t *testing.T) {
	led := &stubLedger{duplicate: true}
	q := &stubQueue{}
	r := webhookRouter("", led, q)

	body := []byte(`{"type":"payment","data":{"id":12345}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/mercadopago", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Already processed")
	require.Equal(t, 1, led.calls)
	require.Empty(t, q.jobs)
}

func TestPaymentWebhook_MissingPaymentID(t *testing.T) {
	led := &stubLedger{}
	r := webhookRouter("", led, &stubQueue{})

	body := []byte(`{"type":"payment","data":{}}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/mercadopago", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Zero(t, led.calls)
}
