package engine

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// Metric names.
const (
	MetricExecutionsTotal = "feedkit_pipeline_executions_total"
	MetricStageItems      = "feedkit_pipeline_stage_items"
	MetricStageDuration   = "feedkit_pipeline_stage_duration_seconds"
	MetricDuration        = "feedkit_pipeline_duration_seconds"
)

// Execution status values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics 是排序引擎的 Prometheus 指标，并发安全。
// NewMetrics 不会注册指标，需调用 Register。
type Metrics struct {
	executions    *prometheus.CounterVec
	stageItems    *prometheus.GaugeVec
	stageDuration *prometheus.HistogramVec
	duration      prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricExecutionsTotal,
				Help: "Total number of ranking pipeline executions by status",
			},
			[]string{"status"},
		),
		stageItems: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: MetricStageItems,
				Help: "Number of items entering and leaving each pipeline stage in the last execution",
			},
			[]string{"stage", "direction"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricStageDuration,
				Help:    "Histogram of pipeline stage duration in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"stage"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricDuration,
				Help:    "Histogram of whole pipeline execution duration in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
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
		m.executions,
		m.stageItems,
		m.stageDuration,
		m.duration,
	}
}

// ObserveExecution 记录一次完整执行。
func (m *Metrics) ObserveExecution(status string, d time.Duration) {
	m.executions.WithLabelValues(status).Inc()
	m.duration.Observe(d.Seconds())
}

// Hook 返回一个按阶段打点的 pipeline.Hook。每次执行需使用新的 Hook。
func (m *Metrics) Hook() pipeline.Hook {
	return &stageObserver{m: m}
}

type stageObserver struct {
	m     *Metrics
	start time.Time
}

func (o *stageObserver) BeforeNode(_ context.Context, _ *core.RankContext, node pipeline.Node, items []*core.ScoredItem) ([]*core.ScoredItem, error) {
	o.start = time.Now()
	o.m.stageItems.WithLabelValues(string(node.Kind()), "in").Set(float64(len(items)))
	return items, nil
}

func (o *stageObserver) AfterNode(_ context.Context, _ *core.RankContext, node pipeline.Node, items []*core.ScoredItem, err error) ([]*core.ScoredItem, error) {
	stage := string(node.Kind())
	o.m.stageDuration.WithLabelValues(stage).Observe(time.Since(o.start).Seconds())
	if err == nil {
		o.m.stageItems.WithLabelValues(stage, "out").Set(float64(len(items)))
	}
	return items, err
}
