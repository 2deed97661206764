// Package engine 把算法配置解释为五阶段排序 Pipeline 并执行：
//
//	filter -> score -> diversity -> sort -> limit
//
// 引擎不做 I/O、不持久化、不执行用户代码，对同一份只读输入可并发调用。
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/rushteam/feedkit/algorithm"
	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/filter"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/rank"
	"github.com/rushteam/feedkit/rerank"
)

// Meta 是一次执行的统计信息。
type Meta struct {
	TotalProcessed  int   `json:"totalProcessed"`  // 输入条数
	TotalFiltered   int   `json:"totalFiltered"`   // 被过滤阶段剔除的条数
	ExecutionTimeMs int64 `json:"executionTimeMs"` // 整次调用的耗时
}

// Result 是执行结果信封。
type Result struct {
	Items []*core.ScoredItem `json:"items"`
	Meta  Meta               `json:"meta"`
}

// Engine 执行算法配置。零值可用；Engine 无可变状态，可并发使用。
type Engine struct {
	logger  *slog.Logger
	metrics *Metrics
	clock   func() time.Time
}

// Option 配置 Engine。
type Option func(*Engine)

// WithLogger 设置日志；默认 slog.Default()。
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics 开启阶段打点。
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock 设置请求参考时间的来源；默认 time.Now。
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute 使用新的 RankContext 执行配置。
func (e *Engine) Execute(ctx context.Context, items []*core.ContentItem, cfg *algorithm.Config) (*Result, error) {
	return e.Run(ctx, &core.RankContext{}, items, cfg)
}

// Run 在给定的 RankContext 下执行配置。rctx.Now 为零值时由引擎时钟填充，
// 整次执行共用同一参考时间；rctx.Rand 决定 random 排序的随机源。
//
// cfg 应已通过 algorithm.Validate；未知类型在执行期按 no-op 处理。
func (e *Engine) Run(ctx context.Context, rctx *core.RankContext, items []*core.ContentItem, cfg *algorithm.Config) (*Result, error) {
	if cfg == nil {
		return nil, core.NewDomainError(core.ModuleAlgorithm, core.ErrorCodeInvalidInput, "nil algorithm config")
	}
	start := time.Now()

	local := core.RankContext{}
	if rctx != nil {
		local = *rctx
	}
	if local.Now.IsZero() {
		local.Now = e.now()
	}

	p := e.Pipeline(cfg)
	counter := &filterCounter{remaining: len(items)}
	p.Hooks = append(p.Hooks, counter)
	if e.metrics != nil {
		p.Hooks = append(p.Hooks, e.metrics.Hook())
	}

	out, err := p.Run(ctx, &local, core.WrapAll(items))
	elapsed := time.Since(start)
	if e.metrics != nil {
		status := StatusSuccess
		if err != nil {
			status = StatusFailure
		}
		e.metrics.ObserveExecution(status, elapsed)
	}
	if err != nil {
		return nil, err
	}

	res := &Result{
		Items: out,
		Meta: Meta{
			TotalProcessed:  len(items),
			TotalFiltered:   len(items) - counter.remaining,
			ExecutionTimeMs: elapsed.Milliseconds(),
		},
	}
	e.log().DebugContext(ctx, "pipeline executed",
		"algorithm", local.AlgorithmID,
		"name", cfg.Name,
		"processed", res.Meta.TotalProcessed,
		"filtered", res.Meta.TotalFiltered,
		"returned", len(res.Items),
		"duration", elapsed,
	)
	return res, nil
}

// Pipeline 为配置构建固定顺序的五阶段 Pipeline。
func (e *Engine) Pipeline(cfg *algorithm.Config) *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			filter.NewNode(cfg.Filters),
			rank.NewBoostNode(cfg.Boosters),
			&rerank.Diversity{Config: cfg.Diversity, Logger: e.logger},
			&rerank.SortNode{Config: cfg.Sort},
			&rerank.LimitNode{Config: cfg.Limit},
		},
	}
}

func (e *Engine) now() time.Time {
	if e.clock != nil {
		return e.clock()
	}
	return time.Now()
}

func (e *Engine) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return slog.Default()
}

// filterCounter 记录过滤阶段之后剩余的条数。
type filterCounter struct {
	remaining int
}

func (c *filterCounter) BeforeNode(_ context.Context, _ *core.RankContext, _ pipeline.Node, items []*core.ScoredItem) ([]*core.ScoredItem, error) {
	return items, nil
}

func (c *filterCounter) AfterNode(_ context.Context, _ *core.RankContext, node pipeline.Node, items []*core.ScoredItem, err error) ([]*core.ScoredItem, error) {
	if err == nil && node.Kind() == pipeline.KindFilter {
		c.remaining = len(items)
	}
	return items, err
}
