package mercadopago

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreatePreference_WireShape(t *testing.T) {
	var gotBody []byte
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/checkout/preferences", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pref-1","init_point":"https://mp.example/init"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	pref, err := c.CreatePreference(t.Context(), "APP_USR-token", &PreferenceRequest{
		Items:             []PreferenceItem{{Title: "Inscrição", Quantity: 1, UnitPrice: 150}},
		ExternalReference: "sub-1",
		NotificationURL:   "https://matricula.example.com/webhooks/mercadopago",
		BackURLs: PreferenceBackURLs{
			Success: "https://matricula.example.com/inscricao/sub-1/confirmacao",
			Pending: "https://matricula.example.com/inscricao/sub-1/pendente",
			Failure: "https://matricula.example.com/inscricao/sub-1/erro",
		},
		PayerEmail: "ana@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, "pref-1", pref.ID)
	require.Equal(t, "https://mp.example/init", pref.InitPoint)
	require.Equal(t, "Bearer APP_USR-token", gotAuth)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	require.Equal(t, "sub-1", payload["external_reference"])

	backURLs, ok := payload["back_urls"].(map[string]any)
	require.True(t, ok, "back_urls must always be present on the wire")
	require.Equal(t, "https://matricula.example.com/inscricao/sub-1/confirmacao", backURLs["success"])

	payer, ok := payload["payer"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "ana@example.com", payer["email"])
}

func TestGetPayment_DecodesProviderRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payments/12345", r.URL.Path)
		require.Equal(t, "Bearer APP_USR-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":12345,"status":"approved","transaction_amount":150.0,"external_reference":"sub-1"}`))
	}))
	defer srv.Close()

	p, err := New(srv.URL).GetPayment(t.Context(), "APP_USR-token", "12345")
	require.NoError(t, err)
	require.Equal(t, int64(12345), p.ID)
	require.Equal(t, "approved", p.Status)
	require.Equal(t, "sub-1", p.ExternalReference)
}
