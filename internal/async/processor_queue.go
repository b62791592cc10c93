package async

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"github.com/medclaim-ai/claims-engine/internal/common"
	processor "github.com/medclaim-ai/claims-engine/internal/pipeline"
)

type ProcessorQueue struct {
	proc    *processor.Processor
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewProcessorQueue(proc *processor.Processor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					base := common.WithSessionID(context.Background(), job.SessionID)
					if job.TraceID != "" {
						base = common.WithRequestID(base, job.TraceID)
					}
					ctx, cancel := common.WithTimeout(base, q.timeout)
					_, err := q.proc.ProcessSession(ctx, job.SessionID, job.Overrides, job.Vendor)
					cancel()

					if err != nil {
						q.logger.Error("processing failed", "worker_id", workerID, "session_id", job.SessionID, "error", err)
					} else {
						q.logger.Info("processed session successfully", "worker_id", workerID, "session_id", job.SessionID)
					}
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "session_id", job.SessionID)
		return nil
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued session for processing", "session_id", job.SessionID)
	default:
		q.logger.Warn("queue full, applying backpressure", "session_id", job.SessionID)
		q.ch <- job
	}
	return nil
}

func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
