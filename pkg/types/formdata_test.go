package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormData_LookupExactKey(t *testing.T) {
	d := FormData{"telefone": "11987654321"}
	v, ok := d.Phone()
	require.True(t, ok)
	require.Equal(t, "11987654321", v)
}

func TestFormData_LookupCandidateOrder(t *testing.T) {
	d := FormData{"phone": "222", "telefone": "111"}
	v, ok := d.Phone()
	require.True(t, ok)
	require.Equal(t, "111", v)
}

func TestFormData_SubstringFallback(t *testing.T) {
	d := FormData{"telefone_do_responsavel": "11987654321"}
	v, ok := d.Phone()
	require.True(t, ok)
	require.Equal(t, "11987654321", v)
}

func TestFormData_EmailCandidates(t *testing.T) {
	d := FormData{"contato_email": "ana@example.com"}
	v, ok := d.Email()
	require.True(t, ok)
	require.Equal(t, "ana@example.com", v)
}

func TestFormData_MissingKey(t *testing.T) {
	d := FormData{"cidade": "Santos"}
	_, ok := d.Phone()
	require.False(t, ok)
}

func TestFormData_EmptyValueTreatedAsAbsent(t *testing.T) {
	d := FormData{"telefone": "  ", "celular": "11987654321"}
	v, ok := d.Phone()
	require.True(t, ok)
	require.Equal(t, "11987654321", v)
}

func TestFormData_NumericValueStringified(t *testing.T) {
	// JSON decoding yields float64 for numbers
	d := FormData{"telefone": float64(11987654321)}
	v, ok := d.Phone()
	require.True(t, ok)
	require.Equal(t, "11987654321", v)
}

func TestFormData_StringsSkipsNonScalars(t *testing.T) {
	d := FormData{
		"nome":    "Ana",
		"anexos":  []any{"a.pdf"},
		"idade":   float64(21),
		"aceite":  true,
		"ignored": nil,
	}
	out := d.Strings()
	require.Equal(t, "Ana", out["nome"])
	require.Equal(t, "true", out["aceite"])
	require.NotContains(t, out, "anexos")
	require.NotContains(t, out, "ignored")
}
