package runs

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"registry-sync/core/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunFunc performs one run. It fills stats as it progresses so the counts
// reached before a failure survive into the record.
type RunFunc func(ctx context.Context, stats *Stats) error

// Tracker wraps runs and records their outcome.
type Tracker struct {
	sink    Sink
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewTracker creates a tracker. metrics may be nil.
func NewTracker(sink Sink, m *metrics.Metrics, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{sink: sink, metrics: m, logger: logger, now: time.Now}
}

// Track executes fn and appends exactly one record to the sink.
// The run error is returned unchanged; sink failures are only logged.
func (t *Tracker) Track(ctx context.Context, registry string, fn RunFunc) (Record, error) {
	rec := Record{
		ID:        uuid.New(),
		Registry:  registry,
		StartedAt: t.now(),
	}

	var stats Stats
	err := t.run(ctx, fn, &stats)

	rec.Duration = t.now().Sub(rec.StartedAt)
	rec.Total = stats.Total
	rec.Skipped = stats.Skipped
	rec.DryRun = stats.DryRun
	if err != nil {
		rec.Error = err.Error()
		rec.Accepted = 0
	} else {
		rec.Accepted = stats.Accepted
	}

	// The record must land even when the run was cancelled.
	if sinkErr := t.append(context.WithoutCancel(ctx), rec); sinkErr != nil {
		t.logger.Error("Failed to record run",
			zap.String("registry", registry),
			zap.String("run_id", rec.ID.String()),
			zap.Error(sinkErr),
		)
	}
	t.metrics.ObserveRun(registry, err != nil, rec.Accepted, rec.Skipped, rec.Duration)

	fields := []zap.Field{
		zap.String("registry", registry),
		zap.String("run_id", rec.ID.String()),
		zap.Int("total", rec.Total),
		zap.Int("accepted", rec.Accepted),
		zap.Int("skipped", rec.Skipped),
		zap.Duration("duration", rec.Duration),
	}
	if err != nil {
		t.logger.Error("Run failed", append(fields, zap.Error(err))...)
	} else {
		t.logger.Info("Run completed", fields...)
	}

	return rec, err
}

func (t *Tracker) run(ctx context.Context, fn RunFunc, stats *Stats) (err error) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("Run panicked", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			err = fmt.Errorf("run panicked: %v", r)
		}
	}()
	return fn(ctx, stats)
}

func (t *Tracker) append(ctx context.Context, rec Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panicked: %v", r)
		}
	}()
	return t.sink.Append(ctx, rec)
}
