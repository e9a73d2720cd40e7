package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	resolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salonhours",
			Name:      "footer_resolve_total",
			Help:      "Count of footer hour resolutions by holiday source.",
		},
		[]string{"source"},
	)

	resolveDegraded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salonhours",
			Name:      "footer_resolve_degraded_total",
			Help:      "Count of footer requests served base hours because no snapshot could be read.",
		},
	)

	inconsistentSnapshots = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salonhours",
			Name:      "inconsistent_snapshot_total",
			Help:      "Count of registry snapshots observed with more than one active record.",
		},
	)

	activationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salonhours",
			Name:      "activation_total",
			Help:      "Count of flip-set writes by operation and result.",
		},
		[]string{"operation", "result"},
	)

	snapshotCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salonhours",
			Name:      "snapshot_cache_total",
			Help:      "Count of snapshot cache lookups by outcome.",
		},
		[]string{"outcome"},
	)

	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salonhours",
			Name:      "events_published_total",
			Help:      "Count of change events published by type and result.",
		},
		[]string{"event_type", "result"},
	)

	httpRequestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "salonhours",
			Name:      "http_request_seconds",
			Help:      "HTTP request latency by method and status code.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)

	eventPublishSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "salonhours",
			Name:      "event_publish_seconds",
			Help:      "Time spent publishing a change event.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			resolveTotal,
			resolveDegraded,
			inconsistentSnapshots,
			activationTotal,
			snapshotCache,
			eventsPublished,
			eventPublishSeconds,
			httpRequestSeconds,
		)
	})
}

func IncResolve(source string) {
	if source == "" {
		source = "none"
	}
	resolveTotal.WithLabelValues(source).Inc()
}

func IncResolveDegraded() {
	resolveDegraded.Inc()
}

func IncInconsistentSnapshot() {
	inconsistentSnapshots.Inc()
}

func IncActivation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	activationTotal.WithLabelValues(operation, result).Inc()
}

func IncSnapshotCache(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	snapshotCache.WithLabelValues(outcome).Inc()
}

func ObserveEventPublish(eventType, result string, d time.Duration) {
	eventsPublished.WithLabelValues(eventType, result).Inc()
	eventPublishSeconds.Observe(d.Seconds())
}

func ObserveHTTPRequest(method, status string, d time.Duration) {
	httpRequestSeconds.WithLabelValues(method, status).Observe(d.Seconds())
}
