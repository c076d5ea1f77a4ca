package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lifecycle holds the worker lifecycle collectors.
type Lifecycle struct {
	registry *prometheus.Registry

	EventDuration *prometheus.HistogramVec
	EventFailures *prometheus.CounterVec
	TaskCalls     *prometheus.CounterVec
	Dependencies  prometheus.Gauge
}

// NewLifecycle registers the collectors on a fresh registry.
func NewLifecycle() *Lifecycle {
	reg := prometheus.NewRegistry()
	m := &Lifecycle{
		registry: reg,
		EventDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "webtask",
			Name:      "event_handler_duration_seconds",
			Help:      "Duration of broker lifecycle event handlers.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event"}),
		EventFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webtask",
			Name:      "event_handler_failures_total",
			Help:      "Lifecycle event handlers that returned an error.",
		}, []string{"event"}),
		TaskCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webtask",
			Name:      "task_calls_total",
			Help:      "Task handler invocations by outcome.",
		}, []string{"task", "outcome"}),
		Dependencies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "webtask",
			Name:      "dependency_bindings",
			Help:      "Number of bindings in the broker dependency context.",
		}),
	}
	reg.MustRegister(m.EventDuration, m.EventFailures, m.TaskCalls, m.Dependencies)
	return m
}

// ObserveEvent records one handler run. A nil receiver is a no-op.
func (m *Lifecycle) ObserveEvent(event string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.EventDuration.WithLabelValues(event).Observe(time.Since(start).Seconds())
	if err != nil {
		m.EventFailures.WithLabelValues(event).Inc()
	}
}

// ObserveTask counts one task call. A nil receiver is a no-op.
func (m *Lifecycle) ObserveTask(task string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.TaskCalls.WithLabelValues(task, outcome).Inc()
}

// SetDependencies updates the binding gauge. A nil receiver is a no-op.
func (m *Lifecycle) SetDependencies(n int) {
	if m == nil {
		return
	}
	m.Dependencies.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Lifecycle) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
