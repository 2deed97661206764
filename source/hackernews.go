package source

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pkg/conv"
)

// DefaultHackerNewsAPI 是 Hacker News Firebase API 地址。
const DefaultHackerNewsAPI = "https://hacker-news.firebaseio.com/v0"

// HackerNewsFeeds 是合法的 feed 名称。
var HackerNewsFeeds = []string{"top", "new", "best", "ask", "show", "job"}

// HackerNews 抓取 Hacker News 的故事列表，再并发拉取每条详情。
//
// 配置：feed（默认 top）、maxItems（默认 30）、concurrency（默认 10）、apiBase、enabled。
type HackerNews struct {
	base
	Feed        string
	MaxItems    int
	Concurrency int
	APIBase     string
}

type hnItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       *int   `json:"score"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Descendants *int   `json:"descendants"`
	Text        string `json:"text"`
	Type        string `json:"type"`
}

func NewHackerNews(id, name string, cfg map[string]any, opts ...Option) (*HackerNews, error) {
	if name == "" {
		name = "Hacker News"
	}
	return &HackerNews{
		base:        newBase(id, name, TypeHackerNews, cfg, opts),
		Feed:        conv.ConfigGet(cfg, "feed", "top"),
		MaxItems:    int(conv.ConfigGetInt64(cfg, "maxItems", 30)),
		Concurrency: int(conv.ConfigGetInt64(cfg, "concurrency", 10)),
		APIBase:     strings.TrimRight(conv.ConfigGet(cfg, "apiBase", DefaultHackerNewsAPI), "/"),
	}, nil
}

func (h *HackerNews) Validate() error {
	if !slices.Contains(HackerNewsFeeds, h.Feed) {
		return invalid("hackernews: invalid feed %q, must be one of: %s", h.Feed, strings.Join(HackerNewsFeeds, ", "))
	}
	if h.MaxItems <= 0 {
		return invalid("hackernews: maxItems must be positive")
	}
	return nil
}

func (h *HackerNews) Fetch(ctx context.Context, since *time.Time) []*core.ContentItem {
	items, err := h.TryFetch(ctx, since)
	return h.swallow(ctx, items, err)
}

func (h *HackerNews) TryFetch(ctx context.Context, since *time.Time) ([]*core.ContentItem, error) {
	if !h.enabled {
		return []*core.ContentItem{}, nil
	}
	ctx, cancel := h.fetchContext(ctx)
	defer cancel()

	var ids []int64
	if err := getJSON(ctx, h.opts, fmt.Sprintf("%s/%sstories.json", h.APIBase, h.Feed), &ids); err != nil {
		return nil, err
	}
	if len(ids) > h.MaxItems {
		ids = ids[:h.MaxItems]
	}

	// 按位置写入，保持故事列表原有顺序；单条失败只跳过该条
	fetched := make([]*hnItem, len(ids))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(h.Concurrency, 1))
	for i, id := range ids {
		eg.Go(func() error {
			var it hnItem
			if err := getJSON(egCtx, h.opts, fmt.Sprintf("%s/item/%d.json", h.APIBase, id), &it); err != nil {
				h.opts.Logger.DebugContext(egCtx, "hackernews item skipped", "source", h.id, "item", id, "error", err)
				return nil
			}
			if it.ID == 0 {
				return nil
			}
			fetched[i] = &it
			return nil
		})
	}
	_ = eg.Wait()

	out := make([]*core.ContentItem, 0, len(fetched))
	for _, it := range fetched {
		if it == nil {
			continue
		}
		c := h.convert(it)
		if !after(c.Timestamp, since) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (h *HackerNews) convert(it *hnItem) *core.ContentItem {
	url := it.URL
	if url == "" {
		url = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", it.ID)
	}
	title := it.Title
	if title == "" {
		title = "Untitled"
	}
	typ := core.ContentArticle
	if it.Type == "job" {
		typ = core.ContentEvent
	}

	meta := core.Meta{
		"hnId":   it.ID,
		"hnType": it.Type,
	}
	if it.Score != nil {
		meta[core.MetaScore] = *it.Score
	}
	if it.Descendants != nil {
		meta[core.MetaComments] = *it.Descendants
	}
	if it.By != "" {
		meta[core.MetaAuthor] = it.By
	}
	if it.Text != "" {
		meta["text"] = it.Text
	}

	return &core.ContentItem{
		ID:        fmt.Sprintf("hn-%d", it.ID),
		Source:    h.id,
		URL:       url,
		Title:     title,
		Timestamp: time.Unix(it.Time, 0).UTC(),
		Type:      typ,
		Meta:      meta,
	}
}
