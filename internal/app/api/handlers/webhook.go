package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matriculahub/enroll/internal/app/service/ledger"
	"github.com/matriculahub/enroll/internal/app/service/signature"
	"github.com/matriculahub/enroll/internal/app/worker"
	"github.com/matriculahub/enroll/pkg/logctx"
	"github.com/matriculahub/enroll/pkg/types"
)

// SecretSource resolves the active webhook signing secret.
type SecretSource interface {
	WebhookSecret(ctx context.Context) string
}

// EventRecorder is the idempotency ledger surface the webhook needs.
type EventRecorder interface {
	RecordIfNew(ctx context.Context, provider, eventID, eventType string, rawPayload []byte) (*ledger.RecordResult, error)
}

// JobEnqueuer hands accepted events to the reconciliation queue.
type JobEnqueuer interface {
	Enqueue(job worker.Job) error
}

type webhookBody struct {
	Type string `json:"type"`
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

// signatureHeader returns the first populated signature header; the
// provider has shipped both spellings.
func signatureHeader(c *gin.Context) string {
	if v := c.GetHeader("x-signature"); v != "" {
		return v
	}
	return c.GetHeader("x-mp-signature")
}

func requestIDHeader(c *gin.Context) string {
	if v := c.GetHeader("x-request-id"); v != "" {
		return v
	}
	return c.GetHeader("x-correlation-id")
}

// @Summary      Mercado Pago Webhook
// @Description  Receives payment notifications. The signature is verified, the event recorded in the idempotency ledger, and reconciliation runs in the background.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        payload body handlers.WebhookPayload true "Provider notification"
// @Success      200  {object}  handlers.RespWebhookReceived
// @Router       /webhooks/mercadopago [post]
// ApiPaymentWebhook handles asynchronous payment notifications.
func ApiPaymentWebhook(verifier *signature.Verifier, secrets SecretSource, events EventRecorder, queue JobEnqueuer, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logctx.FromGin(c, base)
		requestID := requestIDHeader(c)

		rawBody, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}

		secret := secrets.WebhookSecret(c.Request.Context())
		if err := verifier.Verify(rawBody, signatureHeader(c), secret); err != nil {
			log.Warnw("webhook_signature_rejected", "request_id", requestID, "reason", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "request_id": requestID})
			return
		}

		var body webhookBody
		if err := json.Unmarshal(rawBody, &body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		// Only payment events carry work; everything else is acknowledged
		// as a benign no-op so the provider stops retrying.
		if body.Type != "payment" {
			log.Infow("webhook_ignored_type", "type", body.Type)
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		paymentID := body.Data.ID.String()
		if paymentID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing payment id"})
			return
		}

		rec, err := events.RecordIfNew(c.Request.Context(), string(types.PaymentProviderMercadoPago), paymentID, body.Type, rawBody)
		if err != nil {
			log.Errorw("webhook_ledger_error", "payment_id", paymentID, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !rec.IsNew {
			log.Infow("webhook_duplicate_event", "payment_id", paymentID)
			c.JSON(http.StatusOK, gin.H{"received": true, "message": "Already processed"})
			return
		}

		// Acknowledge now; reconciliation and fan-out run on the queue.
		if err := queue.Enqueue(worker.Job{EventRecordID: rec.EventID, PaymentID: paymentID}); err != nil {
			log.Errorw("webhook_enqueue_failed", "payment_id", paymentID, "error", err.Error())
		}
		log.Infow("webhook_accepted", "payment_id", paymentID)
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

// @Summary      Webhook liveness
// @Tags         Webhook
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /webhooks/mercadopago [get]
func ApiWebhookStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "active", "timestamp": time.Now().Format(time.RFC3339)})
	}
}

func RegisterWebhookRoutes(r gin.IRouter, verifier *signature.Verifier, secrets SecretSource, events EventRecorder, queue JobEnqueuer, base *zap.SugaredLogger) {
	r.POST("/mercadopago", ApiPaymentWebhook(verifier, secrets, events, queue, base))
	r.GET("/mercadopago", ApiWebhookStatus())
}
