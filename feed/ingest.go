package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/source"
)

// FetchToucher 记录内容源最近抓取时间，由 repository.Sources 实现。
type FetchToucher interface {
	TouchFetched(ctx context.Context, id string, t time.Time) error
}

// Notifier 为内容生成通知，由 notify.Notifier 实现。
type Notifier interface {
	Process(ctx context.Context, items []*core.ContentItem) (int, error)
}

// Report 是一次抓取的汇总。
type Report struct {
	Fetched   int                   `json:"fetched"`
	Stored    int                   `json:"stored"`
	New       int                   `json:"new"`
	Notified  int                   `json:"notified"`
	PerSource []source.SourceReport `json:"-"`
}

// Ingestor 抓取已启用的内容源，入库并触发通知。
type Ingestor struct {
	Registry *source.Registry
	Content  core.ContentStore

	Sources  FetchToucher // 可选
	Notifier Notifier     // 可选，只对首次入库的内容生效

	Fetch  source.FetchOptions
	Logger *slog.Logger
	Now    func() time.Time
}

// Run 执行一次抓取。since 为 nil 表示不限时间。单个来源失败只体现在 PerSource 中。
func (i *Ingestor) Run(ctx context.Context, since *time.Time) (*Report, error) {
	logger := i.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now
	if i.Now != nil {
		now = i.Now
	}

	opts := i.Fetch
	opts.Since = since
	if opts.Logger == nil {
		opts.Logger = logger
	}
	res := source.FetchAll(ctx, i.Registry.Enabled(), opts)
	report := &Report{Fetched: len(res.Items), PerSource: res.PerSource}

	ids := make([]string, len(res.Items))
	for k, it := range res.Items {
		ids[k] = it.ID
	}
	known, err := i.Content.Exists(ctx, ids)
	if err != nil {
		return report, fmt.Errorf("check existing content: %w", err)
	}
	fresh := make([]*core.ContentItem, 0, len(res.Items))
	for _, it := range res.Items {
		if !known[it.ID] {
			fresh = append(fresh, it)
		}
	}

	if err := i.Content.Store(ctx, res.Items); err != nil {
		return report, fmt.Errorf("store content: %w", err)
	}
	report.Stored = len(res.Items)
	report.New = len(fresh)

	if i.Sources != nil {
		fetchedAt := now()
		for _, sr := range res.PerSource {
			if sr.Err != nil {
				continue
			}
			if err := i.Sources.TouchFetched(ctx, sr.SourceID, fetchedAt); err != nil && !core.IsNotFound(err) {
				logger.WarnContext(ctx, "touch source failed", "source", sr.SourceID, "error", err)
			}
		}
	}

	if i.Notifier != nil && len(fresh) > 0 {
		n, err := i.Notifier.Process(ctx, fresh)
		report.Notified = n
		if err != nil {
			return report, fmt.Errorf("notify: %w", err)
		}
	}

	failed := 0
	for _, sr := range res.PerSource {
		if sr.Err != nil {
			failed++
		}
	}
	logger.InfoContext(ctx, "ingest finished",
		"sources", len(res.PerSource),
		"failed", failed,
		"fetched", report.Fetched,
		"new", report.New,
		"notified", report.Notified,
	)
	return report, nil
}
