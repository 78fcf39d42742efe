package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client talks to an Evolution API compatible WhatsApp gateway. Endpoint and
// key come from the stored chat gateway config, so they are call parameters
// rather than client state.
type Client struct {
	http *http.Client
}

func New() *Client {
	return &Client{http: &http.Client{Timeout: defaultTimeout}}
}

type SendTextRequest struct {
	BaseURL  string
	Instance string
	APIKey   string
	Number   string
	Text     string
}

type sendTextBody struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

// SendText posts a text message through the gateway. A non-2xx response is
// returned as an error carrying the (truncated) response body.
func (c *Client) SendText(ctx context.Context, req *SendTextRequest) error {
	buf, err := json.Marshal(sendTextBody{Number: req.Number, Text: req.Text})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	url := fmt.Sprintf("%s/message/sendText/%s", strings.TrimRight(req.BaseURL, "/"), req.Instance)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("apikey", req.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
