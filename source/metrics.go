package source

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names.
const (
	MetricFetchTotal        = "feedkit_source_fetch_total"
	MetricFetchedItemsTotal = "feedkit_source_fetched_items_total"
	MetricFetchDuration     = "feedkit_source_fetch_duration_seconds"
)

// Fetch result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics 是内容抓取的 Prometheus 指标，并发安全。
type Metrics struct {
	fetchTotal    *prometheus.CounterVec
	fetchedItems  *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
}

// NewMetrics creates and returns a new Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		fetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricFetchTotal,
				Help: "Total number of source fetches by source and result",
			},
			[]string{"source", "result"},
		),
		fetchedItems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricFetchedItemsTotal,
				Help: "Total number of content items fetched by source",
			},
			[]string{"source"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricFetchDuration,
				Help:    "Histogram of source fetch duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"source"},
		),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns all Prometheus collectors for testing.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.fetchTotal,
		m.fetchedItems,
		m.fetchDuration,
	}
}

// ObserveFetch 记录一次抓取。
func (m *Metrics) ObserveFetch(sourceID string, items int, err error, d time.Duration) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.fetchTotal.WithLabelValues(sourceID, result).Inc()
	m.fetchedItems.WithLabelValues(sourceID).Add(float64(items))
	m.fetchDuration.WithLabelValues(sourceID).Observe(d.Seconds())
}
