package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	return m
}

func TestRunLifecycle(t *testing.T) {
	m := newTestMetrics(t)

	m.RunStarted()
	m.RunStarted()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ActiveRuns))

	m.RunFinished("completed")
	m.RunFinished("error")
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ActiveRuns))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("error")))
}

func TestProviderCallsAndProgress(t *testing.T) {
	m := newTestMetrics(t)

	m.ProviderCall("perplexity", OutcomeFailure)
	m.ProviderCall("perplexity", OutcomeFailure)
	m.ProviderCall("template", OutcomeFallback)
	m.SetProgressRecords(7)
	m.ObserveStage("search", 1500*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProviderCallsTotal.WithLabelValues("perplexity", OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderCallsTotal.WithLabelValues("template", OutcomeFallback)))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.ProgressRecords))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StageDuration))
}

func TestDuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RunStarted()
		m.RunFinished("completed")
		m.ObserveStage("init", time.Second)
		m.ProviderCall("template", OutcomeSuccess)
		m.SetProgressRecords(1)
	})
}
