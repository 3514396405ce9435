// Package metrics provides Prometheus metrics for the qflick search service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ranking metrics
	searchesTotal      *prometheus.CounterVec
	rankingLatency     *prometheus.HistogramVec
	candidateSetSize   prometheus.Histogram
	groverIterations   prometheus.Histogram
	tunnelingOverrides prometheus.Counter
	rankerDisagreement prometheus.Counter
	rankingErrors      *prometheus.CounterVec

	// Upstream collaborator metrics
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec

	// History pipeline metrics
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	queueEnqueues   prometheus.Counter
	queueDequeues   prometheus.Counter
	queueDropped    prometheus.Counter
	workerCount     prometheus.Gauge
	workerErrors    prometheus.Counter
	recordsStored   prometheus.Gauge
	duplicateSearch prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global manager on a custom registry, avoiding default Go collectors.
var (
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry
	globalManager  *Manager                   //nolint:gochecknoglobals // singleton manager
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "qflick",
		subsystem:        "search",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.searchesTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "searches_total",
		Help: "Total searches served, labeled by ranking mode",
	}, []string{"mode"})

	m.rankingLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "ranking_latency_milliseconds",
		Help:    "Histogram of ranking latency in milliseconds by mode",
		Buckets: m.histogramBuckets,
	}, []string{"mode"})

	m.candidateSetSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "candidate_set_size",
		Help:    "Histogram of candidate set sizes handed to the rankers",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	})

	m.groverIterations = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "grover_iterations",
		Help:    "Histogram of amplification iteration counts",
		Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16},
	})

	m.tunnelingOverrides = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "tunneling_overrides_total",
		Help: "Times the tunneling correction replaced the amplified pick",
	})

	m.rankerDisagreement = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ranker_disagreement_total",
		Help: "Comparisons where classical and quantum picked different movies",
	})

	m.rankingErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ranking_errors_total",
		Help: "Ranking failures by kind (empty_set, invalid_query)",
	}, []string{"kind"})

	m.upstreamRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "upstream_requests_total",
		Help: "Upstream collaborator calls by service and outcome",
	}, []string{"service", "outcome"})

	m.upstreamLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "upstream_latency_milliseconds",
		Help:    "Histogram of upstream call latency in milliseconds",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"service"})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "history_queue_size",
		Help: "Current size of the search-record queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "history_queue_capacity",
		Help: "Configured capacity of the search-record queue",
	})

	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "history_enqueues_total",
		Help: "Search records accepted by the queue",
	})

	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "history_dequeues_total",
		Help: "Search records drained by workers",
	})

	m.queueDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "history_dropped_total",
		Help: "Search records dropped on backpressure or closed queue",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "history_worker_count",
		Help: "Number of running history workers",
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "history_worker_errors_total",
		Help: "Failures while recording search history",
	})

	m.recordsStored = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "history_records",
		Help: "Search records currently held by the history store",
	})

	m.duplicateSearch = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "duplicate_requests_total",
		Help: "Search request IDs rejected by the deduper",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_memory_bytes",
		Help: "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_goroutines",
		Help: "Current number of goroutines",
	})
}

// GetRegistry exposes the custom registry for the /healthz exposition handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers delegating to the global manager.

func RecordSearch(mode string) { globalManager.searchesTotal.WithLabelValues(mode).Inc() }

func RecordRankingLatency(mode string, ms float64) {
	globalManager.rankingLatency.WithLabelValues(mode).Observe(ms)
}

func RecordCandidateSetSize(n int)   { globalManager.candidateSetSize.Observe(float64(n)) }
func RecordGroverIterations(r int)   { globalManager.groverIterations.Observe(float64(r)) }
func RecordTunnelingOverride()       { globalManager.tunnelingOverrides.Inc() }
func RecordRankerDisagreement()      { globalManager.rankerDisagreement.Inc() }
func RecordRankingError(kind string) { globalManager.rankingErrors.WithLabelValues(kind).Inc() }

func RecordUpstreamRequest(service, outcome string) {
	globalManager.upstreamRequests.WithLabelValues(service, outcome).Inc()
}
func RecordUpstreamLatency(service string, ms float64) {
	globalManager.upstreamLatency.WithLabelValues(service).Observe(ms)
}

func UpdateQueueSize(n int)     { globalManager.queueSize.Set(float64(n)) }
func UpdateQueueCapacity(n int) { globalManager.queueCapacity.Set(float64(n)) }
func RecordQueueEnqueue()       { globalManager.queueEnqueues.Inc() }
func RecordQueueDequeue()       { globalManager.queueDequeues.Inc() }
func RecordQueueDrop()          { globalManager.queueDropped.Inc() }
func UpdateWorkerCount(n int)   { globalManager.workerCount.Set(float64(n)) }
func RecordWorkerError()        { globalManager.workerErrors.Inc() }
func UpdateRecordsStored(n int) { globalManager.recordsStored.Set(float64(n)) }
func RecordDuplicateRequest()   { globalManager.duplicateSearch.Inc() }

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }
func UpdateSystemGoroutineCount(n int)     { globalManager.systemGoroutineCount.Set(float64(n)) }
