package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRun(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRun("issued", false, 3, 1, time.Second)
	m.ObserveRun("issued", true, 0, 2, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("issued", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("issued", "failure")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Records.WithLabelValues("issued", "accepted")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Records.WithLabelValues("issued", "skipped")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RunDuration))
}

func TestObserveRun_NilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveRun("issued", false, 1, 1, time.Second) })
}
