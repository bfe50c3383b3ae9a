package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics()

	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsInProgress)
	assert.NotNil(t, BorrowsTotal)
	assert.NotNil(t, ReturnsTotal)
	assert.NotNil(t, CircuitBreakerState)
	assert.NotNil(t, EventsPublishedTotal)
}

func TestRecordBorrowAndReturn(t *testing.T) {
	InitMetrics()

	before := counterValue(t, BorrowsTotal.WithLabelValues(ResultConflict))
	RecordBorrow(ResultConflict, 0.01)
	RecordBorrow(ResultConflict, 0.02)
	assert.Equal(t, before+2, counterValue(t, BorrowsTotal.WithLabelValues(ResultConflict)))

	before = counterValue(t, ReturnsTotal.WithLabelValues(ResultSuccess))
	RecordReturn(ResultSuccess, 0.01)
	assert.Equal(t, before+1, counterValue(t, ReturnsTotal.WithLabelValues(ResultSuccess)))
}

func TestRecordCache(t *testing.T) {
	InitMetrics()

	hits := counterValue(t, CacheRequestsTotal.WithLabelValues("book", ResultHit))
	misses := counterValue(t, CacheRequestsTotal.WithLabelValues("book", ResultMiss))

	RecordCache("book", true)
	RecordCache("book", false)
	RecordCache("book", false)

	assert.Equal(t, hits+1, counterValue(t, CacheRequestsTotal.WithLabelValues("book", ResultHit)))
	assert.Equal(t, misses+2, counterValue(t, CacheRequestsTotal.WithLabelValues("book", ResultMiss)))
}

func TestGaugeHelpers(t *testing.T) {
	InitMetrics()

	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	DecGauge(HTTPRequestsInProgress)

	var m dto.Metric
	require.NoError(t, HTTPRequestsInProgress.Write(&m))
	assert.GreaterOrEqual(t, m.GetGauge().GetValue(), float64(1))

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "events"}, 1)
	var state dto.Metric
	require.NoError(t, CircuitBreakerState.WithLabelValues("events").Write(&state))
	assert.Equal(t, float64(1), state.GetGauge().GetValue())
}

func TestHandler_ExposesMetrics(t *testing.T) {
	InitMetrics()
	IncCounterVec(HTTPRequestsTotal, map[string]string{"method": "GET", "path": "/ping", "status": "200"})

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "library_http_requests_total"))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
