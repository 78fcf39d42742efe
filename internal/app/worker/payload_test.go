package worker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaymentIDFromEvent(t *testing.T) {
	require.Equal(t, "123", paymentIDFromEvent([]byte(`{"type":"payment","data":{"id":"123"}}`)))
}

func TestPaymentIDFromEvent_NumericID(t *testing.T) {
	// the provider sends numeric ids on some delivery paths
	require.Equal(t, "12345678901", paymentIDFromEvent([]byte(`{"type":"payment","data":{"id":12345678901}}`)))
}

func TestPaymentIDFromEvent_Malformed(t *testing.T) {
	require.Equal(t, "", paymentIDFromEvent([]byte(`not json`)))
	require.Equal(t, "", paymentIDFromEvent([]byte(`{"type":"payment"}`)))
}
