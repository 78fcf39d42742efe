package worker

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matriculahub/enroll/pkg/config"
)

func testQueue(size int) *Queue {
	cfg := &config.Config{Worker: config.WorkerConfig{QueueSize: size}}
	return NewQueue(cfg, nil, nil, zap.NewNop().Sugar())
}

func TestEnqueue_AfterShutdownReturnsError(t *testing.T) {
	q := testQueue(4)
	q.shutdown()

	var err error
	require.NotPanics(t, func() { err = q.Enqueue(Job{PaymentID: "123"}) })
	require.Error(t, err)
}

func TestEnqueue_FullQueueReturnsError(t *testing.T) {
	q := testQueue(1)
	require.NoError(t, q.Enqueue(Job{PaymentID: "1"}))
	require.Error(t, q.Enqueue(Job{PaymentID: "2"}))
}

func TestShutdown_Idempotent(t *testing.T) {
	q := testQueue(1)
	q.shutdown()
	require.NotPanics(t, q.shutdown)
}
