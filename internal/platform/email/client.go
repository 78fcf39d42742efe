package email

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

// Client sends transactional email through a Resend-style HTTP API.
type Client struct {
	baseURL string
	apiKey  string
	from    string
	http    *http.Client
}

func New(baseURL, apiKey, from string) *Client {
	if baseURL == "" {
		baseURL = "https://api.resend.com"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Configured reports whether the sender can be used at all. The email
// channel skips silently when this is false.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != "" && c.from != ""
}

type SendRequest struct {
	To      string   `json:"-"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
	BCC     []string `json:"bcc,omitempty"`
}

type sendBody struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
	BCC     []string `json:"bcc,omitempty"`
}

func (c *Client) Send(ctx context.Context, req *SendRequest) error {
	buf, err := json.Marshal(sendBody{
		From:    c.from,
		To:      []string{req.To},
		Subject: req.Subject,
		HTML:    req.HTML,
		ReplyTo: req.ReplyTo,
		BCC:     req.BCC,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("email api unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("email api returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
