package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/matriculahub/enroll/internal/models"
	emailclient "github.com/matriculahub/enroll/internal/platform/email"
	"github.com/matriculahub/enroll/internal/platform/whatsapp"
	"github.com/matriculahub/enroll/pkg/config"
	"github.com/matriculahub/enroll/pkg/logctx"
	"github.com/matriculahub/enroll/pkg/tool"
)

const (
	maxErrorLen     = 300
	outboundTimeout = 10 * time.Second
)

// Service fans a paid submission out to three independent channels:
// WhatsApp, email and the LMS enrollment webhook. Channels never block or
// fail each other; each writes its own delivery log and swallows its own
// errors.
type Service struct {
	db     *gorm.DB
	cfg    *config.Config
	log    *zap.SugaredLogger
	chat   *whatsapp.Client
	email  *emailclient.Client
	httpDo *http.Client
}

func New(db *gorm.DB, cfg *config.Config, log *zap.SugaredLogger) *Service {
	return &Service{
		db:     db,
		cfg:    cfg,
		log:    log,
		chat:   whatsapp.New(),
		email:  emailclient.New(cfg.Email.BaseURL, cfg.Email.APIKey, cfg.Email.FromAddress),
		httpDo: &http.Client{Timeout: outboundTimeout},
	}
}

// DispatchApproved runs all three channels for a PAID submission. A panic
// or error in one channel is contained so the others still run.
func (s *Service) DispatchApproved(ctx context.Context, sub *models.Submission) {
	form := s.loadForm(ctx, sub.FormID)
	tenant := s.loadTenant(ctx, sub.TenantID)
	vars := s.buildVars(sub, form, tenant)

	s.dispatch(ctx, []namedChannel{
		{"whatsapp", func() { s.sendWhatsApp(ctx, sub, form, tenant, vars) }},
		{"email", func() { s.sendEmail(ctx, sub, form, tenant, vars) }},
		{"enrollment", func() { s.sendEnrollment(ctx, sub, form, tenant, vars) }},
	})
}

type namedChannel struct {
	name string
	run  func()
}

// dispatch runs the channels in order, containing panics per channel so one
// failing channel never prevents the others from running.
func (s *Service) dispatch(ctx context.Context, channels []namedChannel) {
	log := logctx.FromCtx(ctx, s.log)
	for _, ch := range channels {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorw("fanout_channel_panic", "channel", ch.name, "panic", fmt.Sprint(r))
				}
			}()
			ch.run()
		}()
	}
}

// buildVars assembles the template variable bag: every scalar answer from
// the submission plus the derived nome/curso/polo/valor fields.
func (s *Service) buildVars(sub *models.Submission, form *models.Form, tenant *models.Tenant) map[string]string {
	data := sub.FormData()
	vars := data.Strings()
	if name, ok := data.Name(); ok {
		vars["nome"] = name
	}
	if form != nil {
		if form.CourseName != "" {
			vars["curso"] = form.CourseName
		} else {
			vars["curso"] = form.Title
		}
	}
	if tenant != nil {
		vars["polo"] = tenant.Name
	}
	vars["valor"] = FormatAmount(sub.PaymentAmount)
	return vars
}

func (s *Service) sendWhatsApp(ctx context.Context, sub *models.Submission, form *models.Form, _ *models.Tenant, vars map[string]string) {
	log := logctx.FromCtx(ctx, s.log)

	gw := s.chatGatewayConfig(ctx)
	if gw == nil {
		log.Infow("fanout_whatsapp_skipped", "reason", "gateway not configured", "submission_id", sub.ID)
		return
	}

	tpl := s.findTemplate(ctx, models.TemplateTriggerPaymentApproved, sub.FormID)
	if tpl == nil {
		log.Infow("fanout_whatsapp_skipped", "reason", "no template", "submission_id", sub.ID)
		return
	}

	phone, ok := sub.FormData().Phone()
	if !ok {
		log.Warnw("fanout_whatsapp_skipped", "reason", "no phone in submission data", "submission_id", sub.ID)
		return
	}
	number := NormalizePhone(phone)
	text := RenderTemplate(tpl.Content, vars)

	err := s.chat.SendText(ctx, &whatsapp.SendTextRequest{
		BaseURL:  gw.BaseURL,
		Instance: gw.Instance,
		APIKey:   gw.APIKey,
		Number:   number,
		Text:     text,
	})
	s.logMessage(ctx, sub.ID, models.MessageChannelWhatsApp, number, text, err)
	if err != nil {
		log.Errorw("fanout_whatsapp_failed", "submission_id", sub.ID, "error", err.Error())
		return
	}
	log.Infow("fanout_whatsapp_sent", "submission_id", sub.ID)
}

const defaultEmailBody = `<p>Olá {{nome}},</p>
<p>Recebemos a confirmação do seu pagamento de {{valor}}. Sua matrícula em {{curso}} está confirmada.</p>
<p>{{polo}}</p>`

func (s *Service) sendEmail(ctx context.Context, sub *models.Submission, _ *models.Form, _ *models.Tenant, vars map[string]string) {
	log := logctx.FromCtx(ctx, s.log)

	if !s.email.Configured() {
		log.Infow("fanout_email_skipped", "reason", "sender not configured", "submission_id", sub.ID)
		return
	}

	to, ok := sub.FormData().Email()
	if !ok {
		log.Warnw("fanout_email_skipped", "reason", "no email in submission data", "submission_id", sub.ID)
		return
	}

	subject := "Pagamento confirmado"
	body := defaultEmailBody
	if tpl := s.findTemplate(ctx, models.TemplateTriggerPaymentApprovedEmail, sub.FormID); tpl != nil {
		body = tpl.Content
		if tpl.Title != "" {
			subject = tpl.Title
		}
	}
	html := RenderTemplate(body, vars)

	err := s.email.Send(ctx, &emailclient.SendRequest{To: to, Subject: RenderTemplate(subject, vars), HTML: html})
	s.logMessage(ctx, sub.ID, models.MessageChannelEmail, to, html, err)
	if err != nil {
		log.Errorw("fanout_email_failed", "submission_id", sub.ID, "error", err.Error())
		return
	}
	log.Infow("fanout_email_sent", "submission_id", sub.ID)
}

// sendEnrollment posts the enrollment payload: identifying fields plus the
// raw form answers, both nested under student_data and flattened at the
// root for older LMS consumers.
func (s *Service) sendEnrollment(ctx context.Context, sub *models.Submission, _ *models.Form, tenant *models.Tenant, _ map[string]string) {
	log := logctx.FromCtx(ctx, s.log)

	hook := s.outboundWebhookConfig(ctx)
	if hook == nil {
		log.Infow("fanout_enrollment_skipped", "reason", "webhook not configured", "submission_id", sub.ID)
		return
	}

	payload := map[string]any{
		"submission_id":  sub.ID,
		"tenant_id":      sub.TenantID,
		"form_id":        sub.FormID,
		"payment_amount": sub.PaymentAmount,
		"payment_date":   sub.PaymentDate,
		"student_data":   sub.FormData(),
	}
	if tenant != nil {
		payload["tenant_name"] = tenant.Name
	}
	for k, v := range sub.FormData() {
		if _, taken := payload[k]; !taken {
			payload[k] = v
		}
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		log.Errorw("fanout_enrollment_encode_failed", "submission_id", sub.ID, "error", err.Error())
		return
	}

	status, respBody, err := s.postEnrollment(ctx, hook, reqBody)
	s.logEnrollment(ctx, sub.ID, hook.URL, reqBody, status, respBody, err)
	if err != nil {
		log.Errorw("fanout_enrollment_failed", "submission_id", sub.ID, "error", err.Error())
		return
	}
	log.Infow("fanout_enrollment_sent", "submission_id", sub.ID, "status", status)
}

func (s *Service) postEnrollment(ctx context.Context, hook *models.OutboundWebhookConfig, body []byte) (int, string, error) {
	ctx, cancel := context.WithTimeout(ctx, outboundTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hook.URL, strings.NewReader(string(body)))
	if err != nil {
		return 0, "", fmt.Errorf("failed to build enrollment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if hook.BearerToken != nil && *hook.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+*hook.BearerToken)
	}

	resp, err := s.httpDo.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("enrollment webhook unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, string(respBody), fmt.Errorf("enrollment webhook returned %d", resp.StatusCode)
	}
	return resp.StatusCode, string(respBody), nil
}

// findTemplate prefers an active template scoped to the submission's form,
// falling back to the form-agnostic global row.
func (s *Service) findTemplate(ctx context.Context, triggerKey, formID string) *models.MessageTemplate {
	var row models.MessageTemplate
	err := s.db.WithContext(ctx).
		Where("trigger_key = ? AND form_id = ? AND is_active = ?", triggerKey, formID, true).
		First(&row).Error
	if err == nil {
		return &row
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		// still try the global row; a transient error on one query should
		// not silence the channel
		logctx.FromCtx(ctx, s.log).Warnw("template_lookup_failed", "trigger_key", triggerKey, "error", err.Error())
	}
	err = s.db.WithContext(ctx).
		Where("trigger_key = ? AND form_id IS NULL AND is_active = ?", triggerKey, true).
		First(&row).Error
	if err != nil {
		return nil
	}
	return &row
}

func (s *Service) chatGatewayConfig(ctx context.Context) *models.ChatGatewayConfig {
	var row models.ChatGatewayConfig
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("updated_at desc").
		First(&row).Error
	if err == nil {
		return &row
	}
	if s.cfg.ChatGateway.BaseURL != "" && s.cfg.ChatGateway.APIKey != "" {
		return &models.ChatGatewayConfig{
			BaseURL:  s.cfg.ChatGateway.BaseURL,
			Instance: s.cfg.ChatGateway.Instance,
			APIKey:   s.cfg.ChatGateway.APIKey,
		}
	}
	return nil
}

func (s *Service) outboundWebhookConfig(ctx context.Context) *models.OutboundWebhookConfig {
	var row models.OutboundWebhookConfig
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("updated_at desc").
		First(&row).Error
	if err != nil {
		return nil
	}
	return &row
}

func (s *Service) loadForm(ctx context.Context, formID string) *models.Form {
	var row models.Form
	if err := s.db.WithContext(ctx).Where("id = ?", formID).First(&row).Error; err != nil {
		return nil
	}
	return &row
}

func (s *Service) loadTenant(ctx context.Context, tenantID string) *models.Tenant {
	var row models.Tenant
	if err := s.db.WithContext(ctx).Where("id = ?", tenantID).First(&row).Error; err != nil {
		return nil
	}
	return &row
}

func (s *Service) logMessage(ctx context.Context, submissionID string, channel models.MessageChannel, recipient, content string, sendErr error) {
	row := &models.MessageLog{
		ID:           tool.GenerateUUIDV7(),
		SubmissionID: submissionID,
		Channel:      channel,
		Recipient:    recipient,
		Content:      content,
		Status:       models.MessageLogStatusSent,
		Error:        truncateError(sendErr, maxErrorLen),
	}
	if sendErr != nil {
		row.Status = models.MessageLogStatusFailed
	} else {
		row.SentAt = lo.ToPtr(time.Now())
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("message_log_save_failed", "submission_id", submissionID, "channel", channel, "error", err.Error())
	}
}

func (s *Service) logEnrollment(ctx context.Context, submissionID, url string, reqBody []byte, httpStatus int, respBody string, sendErr error) {
	row := &models.EnrollmentLog{
		ID:           tool.GenerateUUIDV7(),
		SubmissionID: submissionID,
		WebhookURL:   url,
		RequestBody:  datatypes.JSON(reqBody),
		Attempt:      1,
		Status:       models.EnrollmentLogStatusDone,
		Error:        truncateError(sendErr, maxErrorLen),
	}
	if httpStatus != 0 {
		row.HTTPStatus = lo.ToPtr(httpStatus)
	}
	if respBody != "" {
		row.ResponseBody = lo.ToPtr(respBody)
	}
	if sendErr != nil {
		row.Status = models.EnrollmentLogStatusFailed
	} else {
		row.CompletedAt = lo.ToPtr(time.Now())
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("enrollment_log_save_failed", "submission_id", submissionID, "error", err.Error())
	}
}
