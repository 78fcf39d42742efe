package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestPrometheusHandler_ServesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", prometheusHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "go_goroutines")
}

func TestComputeApproximateRequestSize(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/mercadopago", strings.NewReader(`{"type":"payment"}`))
	req.Header.Set("Content-Type", "application/json")

	got := computeApproximateRequestSize(req)
	require.Greater(t, got, len("/webhooks/mercadopago")+len(http.MethodPost))
}

func TestMillisecondsSince(t *testing.T) {
	start := time.Now().Add(-250 * time.Millisecond)
	got := MillisecondsSince(start)
	require.GreaterOrEqual(t, got, 250.0)
	require.Less(t, got, 5000.0)
}
