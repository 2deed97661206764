package source

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pkg/conv"
)

// DefaultRedditAPI 是 Reddit 公共 JSON 接口地址（无需认证）。
const DefaultRedditAPI = "https://www.reddit.com"

var (
	// RedditSorts 是合法的排序方式。
	RedditSorts = []string{"hot", "new", "top", "rising"}
	// RedditTimeFilters 是 sort=top 时合法的时间范围。
	RedditTimeFilters = []string{"hour", "day", "week", "month", "year", "all"}
)

// Reddit 抓取某个 subreddit 的帖子列表。
//
// 配置：subreddit（必填）、sort（默认 hot）、timeFilter、maxItems（默认 25）、apiBase、enabled。
type Reddit struct {
	base
	Subreddit  string
	Sort       string
	TimeFilter string
	MaxItems   int
	APIBase    string
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	CreatedUTC  float64 `json:"created_utc"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Author      string  `json:"author"`
	Selftext    string  `json:"selftext"`
	Thumbnail   string  `json:"thumbnail"`
	IsVideo     bool    `json:"is_video"`
	PostHint    string  `json:"post_hint"`
}

func NewReddit(id, name string, cfg map[string]any, opts ...Option) (*Reddit, error) {
	if name == "" {
		name = "Reddit"
	}
	return &Reddit{
		base:       newBase(id, name, TypeReddit, cfg, opts),
		Subreddit:  conv.ConfigGet(cfg, "subreddit", ""),
		Sort:       conv.ConfigGet(cfg, "sort", "hot"),
		TimeFilter: conv.ConfigGet(cfg, "timeFilter", ""),
		MaxItems:   int(conv.ConfigGetInt64(cfg, "maxItems", 25)),
		APIBase:    strings.TrimRight(conv.ConfigGet(cfg, "apiBase", DefaultRedditAPI), "/"),
	}, nil
}

func (r *Reddit) Validate() error {
	if r.Subreddit == "" {
		return invalid("reddit: subreddit is required")
	}
	if !slices.Contains(RedditSorts, r.Sort) {
		return invalid("reddit: invalid sort %q, must be one of: %s", r.Sort, strings.Join(RedditSorts, ", "))
	}
	if r.Sort == "top" && r.TimeFilter != "" && !slices.Contains(RedditTimeFilters, r.TimeFilter) {
		return invalid("reddit: invalid time filter %q, must be one of: %s", r.TimeFilter, strings.Join(RedditTimeFilters, ", "))
	}
	if r.MaxItems <= 0 {
		return invalid("reddit: maxItems must be positive")
	}
	return nil
}

func (r *Reddit) Fetch(ctx context.Context, since *time.Time) []*core.ContentItem {
	items, err := r.TryFetch(ctx, since)
	return r.swallow(ctx, items, err)
}

func (r *Reddit) TryFetch(ctx context.Context, since *time.Time) ([]*core.ContentItem, error) {
	if !r.enabled {
		return []*core.ContentItem{}, nil
	}
	ctx, cancel := r.fetchContext(ctx)
	defer cancel()

	var listing redditListing
	if err := getJSON(ctx, r.opts, r.listingURL(), &listing); err != nil {
		return nil, err
	}

	out := make([]*core.ContentItem, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		c := r.convert(&child.Data)
		if !after(c.Timestamp, since) {
			continue
		}
		out = append(out, c)
		if len(out) >= r.MaxItems {
			break
		}
	}
	return out, nil
}

func (r *Reddit) listingURL() string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(r.MaxItems))
	if r.Sort == "top" && r.TimeFilter != "" {
		q.Set("t", r.TimeFilter)
	}
	return fmt.Sprintf("%s/r/%s/%s.json?%s", r.APIBase, url.PathEscape(r.Subreddit), r.Sort, q.Encode())
}

func (r *Reddit) convert(p *redditPost) *core.ContentItem {
	permalink := r.APIBase + p.Permalink
	link := p.URL
	if !strings.HasPrefix(link, "http") {
		link = permalink
	}

	typ := core.ContentArticle
	switch {
	case p.IsVideo:
		typ = core.ContentVideo
	case p.PostHint == "image":
		typ = core.ContentImage
	}

	meta := core.Meta{
		core.MetaScore:    p.Score,
		core.MetaUpvotes:  p.Score,
		core.MetaComments: p.NumComments,
		core.MetaAuthor:   p.Author,
		"subreddit":       r.Subreddit,
		"permalink":       permalink,
	}
	if p.Selftext != "" {
		meta["selftext"] = p.Selftext
	}
	if p.Thumbnail != "" {
		meta["thumbnail"] = p.Thumbnail
	}

	sec, frac := int64(p.CreatedUTC), p.CreatedUTC-float64(int64(p.CreatedUTC))
	return &core.ContentItem{
		ID:        "reddit-" + p.ID,
		Source:    r.id,
		URL:       link,
		Title:     p.Title,
		Timestamp: time.Unix(sec, int64(frac*1e9)).UTC(),
		Type:      typ,
		Meta:      meta,
	}
}
