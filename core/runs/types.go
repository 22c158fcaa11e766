package runs

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is the audit entry of one run.
type Record struct {
	ID        uuid.UUID     `json:"id"`
	Registry  string        `json:"registry"`
	Total     int           `json:"total"`
	Accepted  int           `json:"accepted"`
	Skipped   int           `json:"skipped"`
	DryRun    bool          `json:"dry_run"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Failed reports whether the run ended with an error.
func (r Record) Failed() bool {
	return r.Error != ""
}

// Stats are the counts a run reports back to the tracker.
type Stats struct {
	Total    int
	Accepted int
	Skipped  int
	DryRun   bool
}

// Sink persists run records. Records are append-only.
type Sink interface {
	Append(ctx context.Context, rec Record) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, rec Record) error

// Append calls f.
func (f SinkFunc) Append(ctx context.Context, rec Record) error {
	return f(ctx, rec)
}
