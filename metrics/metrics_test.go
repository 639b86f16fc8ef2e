package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoOpCollector(t *testing.T) {
	c := NewNoOpCollector()
	// Should not panic
	c.ObserveBackendCall("/api/ask", "200", 0.5)
	c.IncSubmission("chinook", OutcomeSuccess)
	c.IncCatalogLoad(OutcomeTransport)
	c.SetActiveSessions(3)
}

func TestPrometheusCollector_Counters(t *testing.T) {
	c := NewPrometheusCollector()

	c.IncSubmission("chinook", OutcomeSuccess)
	c.IncSubmission("chinook", OutcomeSuccess)
	c.IncSubmission("world", OutcomeAppError)
	c.IncCatalogLoad(OutcomeTransport)
	c.SetActiveSessions(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.submissions.WithLabelValues("chinook", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.submissions.WithLabelValues("world", OutcomeAppError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.catalogLoads.WithLabelValues(OutcomeTransport)))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.sessions))
}

func TestPrometheusCollector_Handler(t *testing.T) {
	c := NewPrometheusCollector()
	c.ObserveBackendCall("/api/databases", "200", 0.12)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `panel_backend_request_duration_seconds_count{endpoint="/api/databases",status="200"} 1`)
}
