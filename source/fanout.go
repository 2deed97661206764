package source

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/feedkit/core"
)

// FetchOptions 控制 FetchAll 的并发与超时。
type FetchOptions struct {
	Since         *time.Time
	Timeout       time.Duration // 每个来源的超时时间（0 表示不限）
	MaxConcurrent int           // 最大并发数（0 表示无限制）
	Metrics       *Metrics
	Logger        *slog.Logger
}

// SourceReport 是单个来源的抓取结果。
type SourceReport struct {
	SourceID string
	Items    int
	Err      error
	Duration time.Duration
}

// FetchResult 是 FetchAll 的合并结果。
type FetchResult struct {
	// Items 按 connector 顺序拼接，按 ID 去重（保留第一个）
	Items []*core.ContentItem

	// PerSource 与入参 connectors 一一对应（跳过的禁用来源不出现）
	PerSource []SourceReport
}

// FetchAll 并发抓取多个来源并合并结果。单个来源失败或超时只会使其结果为空，不影响其他来源。
func FetchAll(ctx context.Context, connectors []Connector, opts FetchOptions) *FetchResult {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	active := make([]Connector, 0, len(connectors))
	for _, c := range connectors {
		if c != nil && c.Enabled() {
			active = append(active, c)
		}
	}

	batches := make([][]*core.ContentItem, len(active))
	reports := make([]SourceReport, len(active))

	eg, _ := errgroup.WithContext(ctx)
	if opts.MaxConcurrent > 0 {
		eg.SetLimit(opts.MaxConcurrent)
	}

	for i, c := range active {
		eg.Go(func() error {
			fetchCtx := ctx
			if opts.Timeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
				defer cancel()
			}

			start := time.Now()
			var (
				items []*core.ContentItem
				err   error
			)
			if tf, ok := c.(TryFetcher); ok {
				items, err = tf.TryFetch(fetchCtx, opts.Since)
			} else {
				items = c.Fetch(fetchCtx, opts.Since)
			}
			if err != nil {
				logger.WarnContext(ctx, "source fetch failed",
					"source", c.ID(),
					"type", c.Type(),
					"error", err,
				)
				items = nil
			}

			batches[i] = items
			reports[i] = SourceReport{SourceID: c.ID(), Items: len(items), Err: err, Duration: time.Since(start)}
			if opts.Metrics != nil {
				opts.Metrics.ObserveFetch(c.ID(), len(items), err, reports[i].Duration)
			}
			// 失败不向上传播
			return nil
		})
	}
	_ = eg.Wait()

	seen := make(map[string]struct{}, 64)
	out := make([]*core.ContentItem, 0, 64)
	for _, batch := range batches {
		for _, it := range batch {
			if it == nil {
				continue
			}
			if _, ok := seen[it.ID]; ok {
				continue
			}
			seen[it.ID] = struct{}{}
			out = append(out, it)
		}
	}
	return &FetchResult{Items: out, PerSource: reports}
}
