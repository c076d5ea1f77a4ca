package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveEvent_CountsFailures(t *testing.T) {
	m := NewLifecycle()
	m.ObserveEvent("worker_startup", time.Now(), nil)
	m.ObserveEvent("worker_startup", time.Now(), errors.New("boom"))

	require.Equal(t, 1.0, testutil.ToFloat64(m.EventFailures.WithLabelValues("worker_startup")))
	require.Equal(t, 1, testutil.CollectAndCount(m.EventDuration))
}

func TestObserveTask_Outcomes(t *testing.T) {
	m := NewLifecycle()
	m.ObserveTask("count", nil)
	m.ObserveTask("count", nil)
	m.ObserveTask("count", errors.New("x"))

	require.Equal(t, 2.0, testutil.ToFloat64(m.TaskCalls.WithLabelValues("count", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.TaskCalls.WithLabelValues("count", "error")))
}

func TestNilLifecycle_NoPanic(t *testing.T) {
	var m *Lifecycle
	m.ObserveEvent("x", time.Now(), nil)
	m.ObserveTask("x", nil)
	m.SetDependencies(2)
}

func TestHandler_ServesMetrics(t *testing.T) {
	m := NewLifecycle()
	m.SetDependencies(2)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "webtask_dependency_bindings 2")
}
