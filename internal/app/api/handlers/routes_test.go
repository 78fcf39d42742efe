package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func routeSet(r *gin.Engine) map[string]bool {
	out := map[string]bool{}
	for _, rt := range r.Routes() {
		out[rt.Method+" "+rt.Path] = true
	}
	return out
}

func TestRegisterWebhookRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/webhooks")
	RegisterWebhookRoutes(g, nil, nil, nil, nil, nil)

	routes := routeSet(r)
	require.True(t, routes["POST /webhooks/mercadopago"])
	require.True(t, routes["GET /webhooks/mercadopago"])
}

func TestRegisterSubmissionRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1")
	RegisterSubmissionRoutes(g, nil, nil)
	RegisterAdminSubmissionRoutes(g.Group("/admin"), nil)

	routes := routeSet(r)
	require.True(t, routes["POST /api/v1/submissions"])
	require.True(t, routes["GET /api/v1/submissions/:id"])
	require.True(t, routes["POST /api/v1/submissions/:id/checkout"])
	require.True(t, routes["POST /api/v1/admin/submissions/scan"])
}

func TestWebhookStatus_Liveness(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/webhooks/mercadopago", ApiWebhookStatus())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/webhooks/mercadopago", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "active", body["status"])
	require.NotEmpty(t, body["timestamp"])
}

func TestSignatureHeader_AcceptsBothNames(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Request.Header.Set("x-mp-signature", "v1=abc")
	require.Equal(t, "v1=abc", signatureHeader(c))

	c.Request.Header.Set("x-signature", "ts=1,v1=def")
	require.Equal(t, "ts=1,v1=def", signatureHeader(c))
}

func TestRequestIDHeader_Fallback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Request.Header.Set("x-correlation-id", "corr-1")
	require.Equal(t, "corr-1", requestIDHeader(c))

	c.Request.Header.Set("x-request-id", "req-1")
	require.Equal(t, "req-1", requestIDHeader(c))
}
