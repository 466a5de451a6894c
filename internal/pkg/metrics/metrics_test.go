package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersRecordByResult(t *testing.T) {
	m := New(nil)

	m.ObserveEntitlement(ResultOK)
	m.ObserveEntitlement(ResultOK)
	m.ObserveEntitlement(ResultNotFound)
	m.ObserveToggle(ResultError)
	m.ObserveCreateRetry()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EntitlementResolutions.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EntitlementResolutions.WithLabelValues(ResultNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BillingToggles.WithLabelValues(ResultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BillingCreateRetries))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveEntitlement(ResultOK)
		m.ObserveToggle(ResultOK)
		m.ObserveCreateRetry()
		m.ObserveAnalyticsDropped()
	})
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New(nil)
	m.ObserveToggle(ResultOK)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `contractorhub_billing_toggles_total{result="ok"} 1`)
}
