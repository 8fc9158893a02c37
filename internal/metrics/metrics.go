package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wirsuchen"

// Metrics holds the translation pipeline collectors on a private registry.
// All methods are safe on a nil receiver so components can run unmetered in tests.
type Metrics struct {
	registry *prometheus.Registry

	cacheLookups     *prometheus.CounterVec
	providerCalls    *prometheus.CounterVec
	rateLimitRetries *prometheus.CounterVec
	backfillTasks    *prometheus.CounterVec
	backfillQueue    prometheus.Gauge
	translations     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "translation_cache",
			Name:      "lookups_total",
			Help:      "Translation cache lookups by tier and result.",
		}, []string{"tier", "result"}),
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "translation_provider",
			Name:      "calls_total",
			Help:      "Translation backend calls by backend and outcome.",
		}, []string{"backend", "outcome"}),
		rateLimitRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "translation_provider",
			Name:      "rate_limit_retries_total",
			Help:      "Retries triggered by upstream rate limiting.",
		}, []string{"backend"}),
		backfillTasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backfill",
			Name:      "tasks_total",
			Help:      "Backfill tasks by outcome.",
		}, []string{"outcome"}),
		backfillQueue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "backfill",
			Name:      "queue_depth",
			Help:      "Backfill tasks waiting for a worker.",
		}),
		translations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "translation_store",
			Name:      "records_written_total",
			Help:      "Translation records persisted by content type and path.",
		}, []string{"content_type", "path"}),
	}

	m.registry.MustRegister(
		m.cacheLookups,
		m.providerCalls,
		m.rateLimitRetries,
		m.backfillTasks,
		m.backfillQueue,
		m.translations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) CacheLookup(tier string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(tier, result).Inc()
}

func (m *Metrics) ProviderCall(backend, outcome string) {
	if m == nil {
		return
	}
	m.providerCalls.WithLabelValues(backend, outcome).Inc()
}

func (m *Metrics) RateLimitRetry(backend string) {
	if m == nil {
		return
	}
	m.rateLimitRetries.WithLabelValues(backend).Inc()
}

func (m *Metrics) BackfillTask(outcome string) {
	if m == nil {
		return
	}
	m.backfillTasks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) BackfillQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.backfillQueue.Set(float64(depth))
}

func (m *Metrics) TranslationWritten(contentType, path string) {
	if m == nil {
		return
	}
	m.translations.WithLabelValues(contentType, path).Inc()
}
