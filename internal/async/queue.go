package async

import (
	"context"
	"time"
)

// Job is the smallest useful unit: build the claim for one session.
type Job struct {
	SessionID   string
	Overrides   map[string]any
	Vendor      string
	SubmittedAt time.Time
	TraceID     string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
