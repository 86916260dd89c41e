package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry)

	m.EvaluationsTotal.Inc()
	m.ViolationsTotal.Add(3)
	m.BiasDetectedTotal.Inc()
	m.PHIRequestsTotal.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EvaluationsTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ViolationsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BiasDetectedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PHIRequestsTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ErrorsTotal))

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestWrapperForwards(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry)
	w := NewWrapper(m)

	w.EvaluationsInc()
	w.ViolationsAdd(2)
	w.BiasDetectedInc()
	w.AttributeFailuresInc()
	w.EvaluationDurationObserve(0.002)
	w.PHIRequestsInc()
	w.PHIErrorsInc()
	w.PHICacheHitsInc()
	w.ProviderLatencyObserve(0.05)
	w.ErrorsInc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EvaluationsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ViolationsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BiasDetectedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AttributeFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PHIRequestsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PHIErrorsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PHICacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ErrorsTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(m.EvaluationDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ProviderLatency))
}
