package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client is a thin REST client for the Mercado Pago API. The access token
// is passed per call, not held by the client, because credentials are
// resolved fresh per request (global config, tenant config or env).
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.mercadopago.com"
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Payment is the subset of the provider payment resource the reconciler
// consumes. Status values are provider-native strings ("approved", ...).
type Payment struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"`
	StatusDetail      string  `json:"status_detail"`
	TransactionAmount float64 `json:"transaction_amount"`
	ExternalReference string  `json:"external_reference"`
	PaymentMethodID   string  `json:"payment_method_id"`
	PaymentTypeID     string  `json:"payment_type_id"`
	DateApproved      *string `json:"date_approved"`
}

// GetPayment fetches the authoritative payment record by id.
func (c *Client) GetPayment(ctx context.Context, accessToken, paymentID string) (*Payment, error) {
	url := fmt.Sprintf("%s/v1/payments/%s", c.baseURL, paymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment %s: %w", paymentID, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("provider returned %d for payment %s: %s", resp.StatusCode, paymentID, truncate(string(body), 300))
	}

	var p Payment
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("failed to decode payment %s: %w", paymentID, err)
	}
	return &p, nil
}

type PreferenceItem struct {
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type PreferenceBackURLs struct {
	Success string `json:"success,omitempty"`
	Pending string `json:"pending,omitempty"`
	Failure string `json:"failure,omitempty"`
}

type PreferenceRequest struct {
	Items             []PreferenceItem   `json:"items"`
	ExternalReference string             `json:"external_reference"`
	NotificationURL   string             `json:"notification_url,omitempty"`
	BackURLs          PreferenceBackURLs `json:"back_urls"`
	PayerEmail        string             `json:"-"`
}

type preferencePayer struct {
	Email string `json:"email,omitempty"`
}

type Preference struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// CreatePreference opens a checkout session for a pending submission.
func (c *Client) CreatePreference(ctx context.Context, accessToken string, pref *PreferenceRequest) (*Preference, error) {
	payload := struct {
		PreferenceRequest
		Payer *preferencePayer `json:"payer,omitempty"`
	}{PreferenceRequest: *pref}
	if pref.PayerEmail != "" {
		payload.Payer = &preferencePayer{Email: pref.PayerEmail}
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preference: %w", err)
	}

	url := c.baseURL + "/checkout/preferences"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("failed to build preference request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create preference: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("provider returned %d creating preference: %s", resp.StatusCode, truncate(string(body), 300))
	}

	var p Preference
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("failed to decode preference: %w", err)
	}
	return &p, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
