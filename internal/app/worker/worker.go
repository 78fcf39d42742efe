package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/matriculahub/enroll/internal/app/service/ledger"
	"github.com/matriculahub/enroll/internal/app/service/reconciler"
	"github.com/matriculahub/enroll/pkg/config"
	"github.com/matriculahub/enroll/pkg/metrics"
)

const sweepBatchSize = 100

// Job is one reconciliation unit: the ledger record to stamp and the
// provider payment id to re-fetch.
type Job struct {
	EventRecordID string
	PaymentID     string
}

// Queue decouples webhook acknowledgment from reconciliation + fan-out. The
// handler enqueues after the ledger insert and responds immediately; a
// single background goroutine drains the channel. On startup the queue
// sweeps ledger rows that never completed (crash between insert and
// fan-out) and re-enqueues them, so an accepted event is eventually
// reconciled even across restarts.
type Queue struct {
	jobs     chan Job
	rec      *reconciler.Service
	ledger   *ledger.Service
	log      *zap.SugaredLogger
	sweepAge time.Duration

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func NewQueue(cfg *config.Config, rec *reconciler.Service, led *ledger.Service, log *zap.SugaredLogger) *Queue {
	size := cfg.Worker.QueueSize
	if size <= 0 {
		size = 256
	}
	age := time.Duration(cfg.Worker.SweepAgeSeconds) * time.Second
	if age <= 0 {
		age = time.Minute
	}
	return &Queue{
		jobs:     make(chan Job, size),
		rec:      rec,
		ledger:   led,
		log:      log,
		sweepAge: age,
		done:     make(chan struct{}),
	}
}

// Enqueue never blocks the webhook handler. A full or stopped queue is
// reported as an error; the event stays unprocessed in the ledger and the
// next sweep picks it up.
func (q *Queue) Enqueue(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.log.Warnw("reconcile_queue_stopped", "payment_id", job.PaymentID)
		return fmt.Errorf("reconcile queue stopped")
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		q.log.Errorw("reconcile_queue_full", "payment_id", job.PaymentID)
		return fmt.Errorf("reconcile queue full")
	}
}

// shutdown marks the queue closed and stops the drain goroutine. Enqueue
// calls racing the shutdown get an error instead of a send on a closed
// channel.
func (q *Queue) shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.jobs)
}

func (q *Queue) run() {
	defer close(q.done)
	for job := range q.jobs {
		q.process(job)
	}
}

func (q *Queue) process(job Job) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		if r := recover(); r != nil {
			outcome = "panic"
			q.log.Errorw("reconcile_job_panic", "payment_id", job.PaymentID, "panic", fmt.Sprint(r))
		}
		metrics.ObservePipeline("reconcile", outcome, time.Since(start))
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if _, err := q.rec.Reconcile(ctx, job.EventRecordID, job.PaymentID); err != nil {
		// The ledger row stays unprocessed; the sweep retries it later.
		outcome = "error"
		q.log.Errorw("reconcile_job_failed", "payment_id", job.PaymentID, "error", err.Error())
	}
}

// sweep re-enqueues unprocessed ledger events older than the configured age.
func (q *Queue) sweep(ctx context.Context) {
	rows, err := q.ledger.Unprocessed(ctx, time.Now().Add(-q.sweepAge), sweepBatchSize)
	if err != nil {
		q.log.Errorw("reconcile_sweep_failed", "error", err.Error())
		return
	}
	for _, row := range rows {
		paymentID := paymentIDFromEvent(row.Payload)
		if paymentID == "" {
			continue
		}
		_ = q.Enqueue(Job{EventRecordID: row.ID, PaymentID: paymentID})
	}
	if len(rows) > 0 {
		q.log.Infow("reconcile_sweep_enqueued", "count", len(rows))
	}
}

func register(lc fx.Lifecycle, q *Queue) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go q.run()
			go q.sweep(context.Background())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			q.shutdown()
			select {
			case <-q.done:
			case <-ctx.Done():
				q.log.Warnw("reconcile_queue_drain_timeout")
			}
			return nil
		},
	})
}

// Module exposes the reconcile queue via Fx.
var Module = fx.Options(
	fx.Provide(NewQueue),
	fx.Invoke(register),
)
