package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tournament_engine"

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Recorder exposes engine and HTTP metrics on a private Prometheus registry.
// A nil Recorder is valid and records nothing.
type Recorder struct {
	registry          *prometheus.Registry
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	generatedMatches  *prometheus.CounterVec
	scoreUpdates      *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	breakerState      *prometheus.GaugeVec
	cacheLookups      *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Engine operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Engine operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		generatedMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generated_matches_total",
			Help:      "Matches created by structure generation, by competition system.",
		}, []string{"system"}),
		scoreUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_updates_total",
			Help:      "Score mutations applied to live matches.",
		}, []string{"mode"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "1 for the current state of each circuit breaker, 0 otherwise.",
		}, []string{"breaker", "state"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Read-through cache lookups by cache and result.",
		}, []string{"cache", "result"}),
	}
	reg.MustRegister(
		r.operations,
		r.operationDuration,
		r.generatedMatches,
		r.scoreUpdates,
		r.httpRequests,
		r.httpDuration,
		r.breakerState,
		r.cacheLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// RecordOperation counts one engine call and observes its latency.
func (r *Recorder) RecordOperation(operation string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	r.operations.WithLabelValues(operation, outcome).Inc()
	r.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (r *Recorder) RecordGeneratedMatches(system string, matches int) {
	if r == nil || matches <= 0 {
		return
	}
	r.generatedMatches.WithLabelValues(system).Add(float64(matches))
}

func (r *Recorder) RecordScoreUpdate(mode string) {
	if r == nil {
		return
	}
	r.scoreUpdates.WithLabelValues(mode).Inc()
}

func (r *Recorder) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// BreakerStates lists the values SetBreakerState accepts, in gauge order.
var BreakerStates = []string{"closed", "open", "half_open"}

// SetBreakerState marks state as current for the named breaker.
func (r *Recorder) SetBreakerState(breaker, state string) {
	if r == nil {
		return
	}
	for _, s := range BreakerStates {
		v := 0.0
		if s == state {
			v = 1
		}
		r.breakerState.WithLabelValues(breaker, s).Set(v)
	}
}

// RecordCacheLookup counts a hit or miss on a named cache.
func (r *Recorder) RecordCacheLookup(cache string, hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(cache, result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry to tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.registry
}
