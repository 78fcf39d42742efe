package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/matriculahub/enroll/internal/models"
)

func testService() *Service {
	return &Service{log: zap.NewNop().Sugar()}
}

func TestDispatch_PanickingChannelDoesNotStopOthers(t *testing.T) {
	s := testService()

	var ran []string
	s.dispatch(context.Background(), []namedChannel{
		{"whatsapp", func() { panic("gateway exploded") }},
		{"email", func() { ran = append(ran, "email") }},
		{"enrollment", func() { ran = append(ran, "enrollment") }},
	})

	require.Equal(t, []string{"email", "enrollment"}, ran)
}

func TestDispatch_RunsInOrder(t *testing.T) {
	s := testService()

	var ran []string
	s.dispatch(context.Background(), []namedChannel{
		{"a", func() { ran = append(ran, "a") }},
		{"b", func() { ran = append(ran, "b") }},
	})

	require.Equal(t, []string{"a", "b"}, ran)
}

func TestBuildVars_DerivedFields(t *testing.T) {
	s := testService()
	sub := &models.Submission{
		ID:            "sub-1",
		PaymentAmount: 150,
		Data:          datatypes.JSON(`{"nome":"Ana Silva","telefone":"11987654321","cidade":"Santos"}`),
	}
	form := &models.Form{Title: "Inscrição Pedagogia", CourseName: "Pedagogia"}
	tenant := &models.Tenant{Name: "Polo Santos"}

	vars := s.buildVars(sub, form, tenant)
	require.Equal(t, "Ana Silva", vars["nome"])
	require.Equal(t, "Pedagogia", vars["curso"])
	require.Equal(t, "Polo Santos", vars["polo"])
	require.Equal(t, "R$ 150,00", vars["valor"])
	// raw answers stay available to templates
	require.Equal(t, "Santos", vars["cidade"])
	require.Equal(t, "11987654321", vars["telefone"])
}

func TestBuildVars_FormTitleFallbackForCourse(t *testing.T) {
	s := testService()
	sub := &models.Submission{Data: datatypes.JSON(`{}`)}
	vars := s.buildVars(sub, &models.Form{Title: "Inscrição 2026"}, nil)
	require.Equal(t, "Inscrição 2026", vars["curso"])
}

func TestTruncateError(t *testing.T) {
	require.Nil(t, truncateError(nil, 10))

	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	got := truncateError(errForTest(string(long)), maxErrorLen)
	require.NotNil(t, got)
	require.Len(t, *got, maxErrorLen)
}

type errForTest string

func (e errForTest) Error() string { return string(e) }
