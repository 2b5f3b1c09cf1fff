// internal/metrics/metrics_test.go
package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveInit(t *testing.T) {
	m := New()

	m.ObserveInit(BackendPostgres, OutcomeCreated)
	m.ObserveInit(BackendPostgres, OutcomeCreated)
	m.ObserveInit(BackendFile, OutcomeConflict)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.InitRequests().WithLabelValues(BackendPostgres, OutcomeCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InitRequests().WithLabelValues(BackendFile, OutcomeConflict)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InitRequests().WithLabelValues(BackendNone, OutcomeClientError)))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveInit(BackendDefault, OutcomeCreated)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `repo_init_requests_total{backend="default",outcome="created"} 1`)
}
