package runs

import (
	"context"
	"errors"
	"testing"
	"time"

	"registry-sync/core/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSink struct {
	records []Record
	err     error
	ctxErr  error
}

func (s *memSink) Append(ctx context.Context, rec Record) error {
	s.ctxErr = ctx.Err()
	s.records = append(s.records, rec)
	return s.err
}

func newTestTracker(sink Sink) *Tracker {
	tr := NewTracker(sink, metrics.New(prometheus.NewRegistry()), nil)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	tr.now = func() time.Time {
		calls++
		return start.Add(time.Duration(calls-1) * 3 * time.Second)
	}
	return tr
}

func TestTrack_Success(t *testing.T) {
	sink := &memSink{}
	tr := newTestTracker(sink)

	rec, err := tr.Track(context.Background(), "issued", func(_ context.Context, s *Stats) error {
		s.Total, s.Accepted, s.Skipped = 5, 4, 1
		return nil
	})
	require.NoError(t, err)

	require.Len(t, sink.records, 1)
	assert.Equal(t, rec, sink.records[0])
	assert.Equal(t, "issued", rec.Registry)
	assert.Equal(t, 5, rec.Total)
	assert.Equal(t, 4, rec.Accepted)
	assert.Equal(t, 1, rec.Skipped)
	assert.Empty(t, rec.Error)
	assert.False(t, rec.Failed())
	assert.Equal(t, 3*time.Second, rec.Duration)
	assert.Equal(t, 1.0, testutil.ToFloat64(tr.metrics.Runs.WithLabelValues("issued", "success")))
}

func TestTrack_FailureZeroesAccepted(t *testing.T) {
	sink := &memSink{}
	tr := newTestTracker(sink)

	rec, err := tr.Track(context.Background(), "issued", func(_ context.Context, s *Stats) error {
		s.Total, s.Accepted, s.Skipped = 3, 2, 1
		return errors.New("constraint violation")
	})
	require.Error(t, err)

	require.Len(t, sink.records, 1)
	assert.Equal(t, 3, rec.Total)
	assert.Equal(t, 0, rec.Accepted)
	assert.Equal(t, 1, rec.Skipped)
	assert.Equal(t, "constraint violation", rec.Error)
	assert.True(t, rec.Failed())
	assert.Equal(t, 1.0, testutil.ToFloat64(tr.metrics.Runs.WithLabelValues("issued", "failure")))
}

func TestTrack_ProviderFailureHasZeroCounts(t *testing.T) {
	sink := &memSink{}
	tr := newTestTracker(sink)

	rec, err := tr.Track(context.Background(), "insurance", func(context.Context, *Stats) error {
		return errors.New("render timeout")
	})
	require.Error(t, err)
	assert.Equal(t, 0, rec.Total)
	assert.Equal(t, 0, rec.Accepted)
	assert.Equal(t, 0, rec.Skipped)
	assert.Len(t, sink.records, 1)
}

func TestTrack_RecoversPanic(t *testing.T) {
	sink := &memSink{}
	tr := newTestTracker(sink)

	rec, err := tr.Track(context.Background(), "issued", func(context.Context, *Stats) error {
		panic("boom")
	})
	require.Error(t, err)
	assert.Contains(t, rec.Error, "boom")
	assert.Len(t, sink.records, 1)
}

func TestTrack_SinkFailureIsSwallowed(t *testing.T) {
	sink := &memSink{err: errors.New("db down")}
	tr := newTestTracker(sink)

	_, err := tr.Track(context.Background(), "issued", func(context.Context, *Stats) error { return nil })
	assert.NoError(t, err)
	assert.Len(t, sink.records, 1)
}

func TestTrack_SinkPanicIsSwallowed(t *testing.T) {
	tr := newTestTracker(SinkFunc(func(context.Context, Record) error {
		panic("driver bug")
	}))

	var rec Record
	var err error
	require.NotPanics(t, func() {
		rec, err = tr.Track(context.Background(), "issued", func(_ context.Context, s *Stats) error {
			s.Total, s.Accepted = 2, 2
			return nil
		})
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, rec.Accepted)
	assert.Equal(t, 1.0, testutil.ToFloat64(tr.metrics.Runs.WithLabelValues("issued", "success")))
}

func TestTrack_RecordsCancelledRun(t *testing.T) {
	sink := &memSink{}
	tr := newTestTracker(sink)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := tr.Track(ctx, "issued", func(ctx context.Context, _ *Stats) error {
		cancel()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, sink.records, 1)
	assert.NoError(t, sink.ctxErr, "sink context is detached from cancellation")
}
