package metrics

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvstats/internal/errors"
)

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, OutcomeOK, OutcomeOf(nil))
	assert.Equal(t, OutcomeInvalidInput, OutcomeOf(errors.InvalidInput("bad")))
	assert.Equal(t, OutcomeFailed, OutcomeOf(errors.ProcessingFailed(stderrors.New("x"))))
}

func TestObserveCounts(t *testing.T) {
	m := New()

	m.Observe("pca", 10, time.Millisecond, nil)
	m.Observe("pca", 0, time.Millisecond, errors.InvalidInput("bad"))
	m.Observe("dedup", 3, time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("pca", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("pca", OutcomeInvalidInput)))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.rows.WithLabelValues("pca")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.rows.WithLabelValues("dedup")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.Observe("pca", 1, time.Second, nil) })
}

func TestHandlerServesText(t *testing.T) {
	m := New()
	m.Observe("dedup", 2, time.Millisecond, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `csvstats_requests_total{outcome="ok",service="dedup"} 1`))
	assert.Contains(t, body, "csvstats_processing_seconds_bucket")
}
