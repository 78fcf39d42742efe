package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ReplayWindow bounds the accepted clock skew for timestamped signatures.
const ReplayWindow = 600 * time.Second

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrStaleTimestamp   = errors.New("webhook timestamp outside replay window")
)

// Verifier validates the x-signature header Mercado Pago sends with webhook
// deliveries. The header is a k=v list ("ts=1700000000,v1=abc..."); the v1
// digest is HMAC-SHA256 over "{ts}.{rawBody}". Older integrations sign the
// raw body without a timestamp, so that form is accepted as a fallback.
type Verifier struct {
	now func() time.Time
}

func New() *Verifier {
	return &Verifier{now: time.Now}
}

// NewAt pins the clock, for tests.
func NewAt(now func() time.Time) *Verifier {
	return &Verifier{now: now}
}

// Verify checks rawBody against the signature header. An empty secret skips
// verification entirely: deployments without a configured secret accept all
// deliveries and rely on the provider fetch as the source of truth.
func (v *Verifier) Verify(rawBody []byte, header, secret string) error {
	if secret == "" {
		return nil
	}
	if header == "" {
		return ErrInvalidSignature
	}

	parts := parseHeader(header)
	provided := parts["v1"]
	if provided == "" {
		provided = parts["signature"]
	}
	if provided == "" {
		return ErrInvalidSignature
	}

	if ts := parts["ts"]; ts != "" {
		sec, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return ErrInvalidSignature
		}
		skew := v.now().Sub(time.Unix(sec, 0))
		if skew < 0 {
			skew = -skew
		}
		if skew > ReplayWindow {
			return ErrStaleTimestamp
		}
		signed := fmt.Sprintf("%s.%s", ts, rawBody)
		if equal(provided, digest([]byte(signed), secret)) {
			return nil
		}
	}

	// Legacy form: HMAC over the body alone, no timestamp check.
	if equal(provided, digest(rawBody, secret)) {
		return nil
	}
	return ErrInvalidSignature
}

// parseHeader splits a "ts=...,v1=..." list. Both ';' and ',' separate
// entries depending on the provider's delivery path.
func parseHeader(header string) map[string]string {
	out := map[string]string{}
	fields := strings.FieldsFunc(header, func(r rune) bool {
		return r == ';' || r == ','
	})
	for _, f := range fields {
		kv := strings.SplitN(strings.TrimSpace(f), "=", 2)
		if len(kv) != 2 {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(kv[0]))] = strings.TrimSpace(kv[1])
	}
	return out
}

func digest(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func equal(provided, expected string) bool {
	return hmac.Equal([]byte(strings.ToLower(provided)), []byte(expected))
}
