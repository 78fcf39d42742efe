package notify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderTemplate_MissingKeysLeftLiteral(t *testing.T) {
	out := RenderTemplate("Hello {{name}}, amount {{amount}}", map[string]string{"name": "Ana"})
	require.Equal(t, "Hello Ana, amount {{amount}}", out)
}

func TestRenderTemplate_AllKeys(t *testing.T) {
	vars := map[string]string{"nome": "Ana", "curso": "Pedagogia", "valor": "R$ 150,00"}
	out := RenderTemplate("{{nome}} - {{curso}} - {{valor}}", vars)
	require.Equal(t, "Ana - Pedagogia - R$ 150,00", out)
}

func TestRenderTemplate_WhitespaceInsidePlaceholder(t *testing.T) {
	out := RenderTemplate("Oi {{ nome }}", map[string]string{"nome": "Ana"})
	require.Equal(t, "Oi Ana", out)
}

func TestNormalizePhone_LocalNumberGetsCountryCode(t *testing.T) {
	require.Equal(t, "5511987654321", NormalizePhone("11987654321"))
}

func TestNormalizePhone_AlreadyInternationalUnchanged(t *testing.T) {
	require.Equal(t, "5511987654321", NormalizePhone("5511987654321"))
}

func TestNormalizePhone_ShortNumberUnchanged(t *testing.T) {
	require.Equal(t, "87654321", NormalizePhone("87654321"))
}

func TestNormalizePhone_StripsFormatting(t *testing.T) {
	require.Equal(t, "5511987654321", NormalizePhone("(11) 98765-4321"))
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "R$ 150,00", FormatAmount(150))
	require.Equal(t, "R$ 1.234,56", FormatAmount(1234.56))
	require.Equal(t, "R$ 0,50", FormatAmount(0.5))
	require.Equal(t, "R$ 1.000.000,00", FormatAmount(1000000))
}
