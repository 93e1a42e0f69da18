package config

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigMetrics_Registration(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewConfigMetrics("worker", reg)

	metrics.RecordLoadTimestamp()
	metrics.RecordValidationError("FETCH_TIMEOUT")
	metrics.RecordFallback("FETCH_TIMEOUT")
	metrics.SetFallbackActive(true)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.ElementsMatch(t, []string{
		"worker_config_load_timestamp",
		"worker_config_validation_errors_total",
		"worker_config_fallbacks_total",
		"worker_config_fallback_active",
	}, names)
}

func TestNewConfigMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewConfigMetrics("api", reg)

	assert.Panics(t, func() { NewConfigMetrics("api", reg) })
	assert.NotPanics(t, func() { NewConfigMetrics("worker", reg) })
}

func TestSetFallbackActive(t *testing.T) {
	metrics := NewConfigMetrics("test_fallback_active", prometheus.NewRegistry())

	metrics.SetFallbackActive(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbackActive))

	metrics.SetFallbackActive(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.FallbackActive))
}

func TestRecordFallback_PerField(t *testing.T) {
	metrics := NewConfigMetrics("test_fallback_field", prometheus.NewRegistry())

	metrics.RecordFallback("A")
	metrics.RecordFallback("A")
	metrics.RecordFallback("B")

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("A")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("B")))
}
