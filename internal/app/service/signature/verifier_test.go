package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func fixedVerifier(at time.Time) *Verifier {
	return NewAt(func() time.Time { return at })
}

func TestVerify_NoSecretSkipsVerification(t *testing.T) {
	v := New()
	require.NoError(t, v.Verify([]byte(`{"type":"payment"}`), "", ""))
	require.NoError(t, v.Verify([]byte(`{"type":"payment"}`), "garbage", ""))
}

func TestVerify_TimestampedSignature(t *testing.T) {
	now := time.Unix(1700000000, 0)
	body := `{"type":"payment","data":{"id":"123"}}`
	ts := fmt.Sprintf("%d", now.Unix())
	header := fmt.Sprintf("ts=%s,v1=%s", ts, sign(ts+"."+body))

	v := fixedVerifier(now)
	require.NoError(t, v.Verify([]byte(body), header, testSecret))
}

func TestVerify_SemicolonSeparatedHeader(t *testing.T) {
	now := time.Unix(1700000000, 0)
	body := `{"type":"payment"}`
	ts := fmt.Sprintf("%d", now.Unix())
	header := fmt.Sprintf("ts=%s; v1=%s", ts, sign(ts+"."+body))

	require.NoError(t, fixedVerifier(now).Verify([]byte(body), header, testSecret))
}

func TestVerify_TamperedBodyRejected(t *testing.T) {
	now := time.Unix(1700000000, 0)
	ts := fmt.Sprintf("%d", now.Unix())
	header := fmt.Sprintf("ts=%s,v1=%s", ts, sign(ts+`.{"amount":100}`))

	err := fixedVerifier(now).Verify([]byte(`{"amount":999}`), header, testSecret)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidSignature))
}

func TestVerify_StaleTimestampRejected(t *testing.T) {
	now := time.Unix(1700000000, 0)
	old := now.Add(-601 * time.Second)
	body := `{"type":"payment"}`
	ts := fmt.Sprintf("%d", old.Unix())
	// signature over ts+body is correct, only the timestamp is stale
	header := fmt.Sprintf("ts=%s,v1=%s", ts, sign(ts+"."+body))

	err := fixedVerifier(now).Verify([]byte(body), header, testSecret)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrStaleTimestamp))
}

func TestVerify_TimestampWithinWindowAccepted(t *testing.T) {
	now := time.Unix(1700000000, 0)
	old := now.Add(-599 * time.Second)
	body := `{"type":"payment"}`
	ts := fmt.Sprintf("%d", old.Unix())
	header := fmt.Sprintf("ts=%s,v1=%s", ts, sign(ts+"."+body))

	require.NoError(t, fixedVerifier(now).Verify([]byte(body), header, testSecret))
}

func TestVerify_LegacyBodyOnlySignature(t *testing.T) {
	body := `{"type":"payment","data":{"id":"42"}}`
	header := "v1=" + sign(body)

	require.NoError(t, New().Verify([]byte(body), header, testSecret))
}

func TestVerify_MissingHeaderRejected(t *testing.T) {
	err := New().Verify([]byte(`{}`), "", testSecret)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_MalformedHeaderRejected(t *testing.T) {
	err := New().Verify([]byte(`{}`), "not-a-kv-list", testSecret)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestParseHeader(t *testing.T) {
	got := parseHeader("ts=123, v1=abc;signature=def")
	require.Equal(t, "123", got["ts"])
	require.Equal(t, "abc", got["v1"])
	require.Equal(t, "def", got["signature"])
}
