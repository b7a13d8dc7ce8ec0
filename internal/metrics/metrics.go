// Package metrics holds the Prometheus collectors exported by the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ironlog"

// Manager groups the server's collectors.
type Manager struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	WorkoutsCreated      prometheus.Counter
	WorkoutsRejected     prometheus.Counter
	WorkoutsDeleted      prometheus.Counter
	GuidanceRequests     *prometheus.CounterVec
	ExerciseLookupMisses prometheus.Counter

	registry *prometheus.Registry
}

// NewManager registers all collectors on a fresh registry, along with the Go
// runtime and process collectors.
func NewManager() *Manager {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return newManager(reg)
}

// NewTestManager returns a Manager without the runtime collectors.
func NewTestManager() *Manager {
	return newManager(prometheus.NewRegistry())
}

func newManager(reg *prometheus.Registry) *Manager {
	factory := promauto.With(reg)
	return &Manager{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		WorkoutsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workouts_created_total",
			Help:      "Workouts saved.",
		}),
		WorkoutsRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workouts_rejected_total",
			Help:      "Workout saves rejected as malformed.",
		}),
		WorkoutsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workouts_deleted_total",
			Help:      "Workouts deleted.",
		}),
		GuidanceRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guidance_requests_total",
			Help:      "AI guidance requests by outcome.",
		}, []string{"outcome"}),
		ExerciseLookupMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exercise_lookup_misses_total",
			Help:      "Exercise name lookups with no catalog match.",
		}),
		registry: reg,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
