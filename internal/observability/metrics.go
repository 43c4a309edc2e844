package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "flight_risk"

// Metrics holds the Prometheus counters, histograms, and gauges for the risk service.
type Metrics struct {
	AssessmentsTotal   *prometheus.CounterVec // labels: level={low,medium,high}
	AssessmentScore    prometheus.Histogram
	AssessmentDuration prometheus.Histogram
	AssessmentErrors   prometheus.Counter
	FactorRisk         *prometheus.HistogramVec // labels: factor
	ServiceReady       prometheus.Gauge

	// Batch processing metrics.
	BatchSize prometheus.Histogram

	// HTTP boundary metrics.
	RequestErrors *prometheus.CounterVec // labels: reason={malformed,invalid,too_large,timeout,internal}

	// Assessment cache metrics.
	Cache        *prometheus.CounterVec // labels: result={hit,miss,evict}
	CacheEnabled prometheus.Gauge
}

var (
	scoreBuckets    = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	durationBuckets = []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05}
	riskBuckets     = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8}
	batchBuckets    = []float64{1, 5, 10, 20, 30, 40, 50, 75, 100}
)

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AssessmentsTotal,
		m.AssessmentScore,
		m.AssessmentDuration,
		m.AssessmentErrors,
		m.FactorRisk,
		m.ServiceReady,
		m.BatchSize,
		m.RequestErrors,
		m.Cache,
		m.CacheEnabled,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AssessmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Completed risk assessments by level.",
		}, []string{"level"}),
		AssessmentScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assessment_score",
			Help:      "Distribution of normalized risk scores.",
			Buckets:   scoreBuckets,
		}),
		AssessmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assessment_duration_seconds",
			Help:      "Duration of one assessment including recommendations and charts.",
			Buckets:   durationBuckets,
		}),
		AssessmentErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessment_errors_total",
			Help:      "Assessments that failed to render or were cancelled.",
		}),
		FactorRisk: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "factor_risk",
			Help:      "Crisp per-factor risk values.",
			Buckets:   riskBuckets,
		}, []string{"factor"}),
		ServiceReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "service_ready",
			Help:      "1 once the risk model passed its warm-up check, 0 otherwise.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of readings per batch request.",
			Buckets:   batchBuckets,
		}),
		RequestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_errors_total",
			Help:      "Rejected or failed API requests by reason.",
		}, []string{"reason"}),
		Cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessment_cache_total",
			Help:      "Assessment cache lookups and evictions by result.",
		}, []string{"result"}),
		CacheEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "assessment_cache_enabled",
			Help:      "1 when assessment caching is enabled, 0 otherwise.",
		}),
	}
}
