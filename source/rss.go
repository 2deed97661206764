package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pkg/conv"
)

// RSS 抓取 RSS/Atom/JSON Feed（Substack、博客、新闻站等）。
//
// 配置：feedUrl（必填）、enabled。
type RSS struct {
	base
	FeedURL string
	parser  *gofeed.Parser
	now     func() time.Time
}

func NewRSS(id, name string, cfg map[string]any, opts ...Option) (*RSS, error) {
	if name == "" {
		name = "RSS Feed"
	}
	r := &RSS{
		base:    newBase(id, name, TypeRSS, cfg, opts),
		FeedURL: conv.ConfigGet(cfg, "feedUrl", ""),
		parser:  gofeed.NewParser(),
		now:     time.Now,
	}
	r.parser.Client = r.opts.HTTPClient
	r.parser.UserAgent = r.opts.UserAgent
	return r, nil
}

func (r *RSS) Validate() error {
	if r.FeedURL == "" {
		return invalid("rss: feed url is required")
	}
	u, err := url.Parse(r.FeedURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return invalid("rss: invalid feed url %q", r.FeedURL)
	}
	return nil
}

func (r *RSS) Fetch(ctx context.Context, since *time.Time) []*core.ContentItem {
	items, err := r.TryFetch(ctx, since)
	return r.swallow(ctx, items, err)
}

func (r *RSS) TryFetch(ctx context.Context, since *time.Time) ([]*core.ContentItem, error) {
	if !r.enabled {
		return []*core.ContentItem{}, nil
	}
	if r.FeedURL == "" {
		return nil, errors.New("rss: feed url is required")
	}
	ctx, cancel := r.fetchContext(ctx)
	defer cancel()
	feed, err := r.parser.ParseURLWithContext(r.FeedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", r.FeedURL, err)
	}

	out := make([]*core.ContentItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		ts := r.timestamp(it)
		if !after(ts, since) {
			continue
		}
		out = append(out, r.convert(feed, it, ts))
	}
	return out, nil
}

func (r *RSS) timestamp(it *gofeed.Item) time.Time {
	switch {
	case it.PublishedParsed != nil:
		return *it.PublishedParsed
	case it.UpdatedParsed != nil:
		return *it.UpdatedParsed
	default:
		return r.now()
	}
}

func (r *RSS) convert(feed *gofeed.Feed, it *gofeed.Item, ts time.Time) *core.ContentItem {
	id := it.GUID
	if id == "" {
		id = it.Link
	}
	if id == "" {
		id = fmt.Sprintf("%s-%d", r.id, ts.UnixMilli())
	}
	title := it.Title
	if title == "" {
		title = "Untitled"
	}

	meta := core.Meta{"feedTitle": feed.Title}
	desc := it.Description
	if desc == "" {
		desc = it.Content
	}
	if desc != "" {
		meta["description"] = desc
	}
	if author := author(it); author != "" {
		meta[core.MetaAuthor] = author
	}
	if len(it.Categories) > 0 {
		meta["categories"] = it.Categories
	}
	if thumb := thumbnail(it); thumb != "" {
		meta["thumbnail"] = thumb
	}

	return &core.ContentItem{
		ID:        id,
		Source:    r.id,
		URL:       it.Link,
		Title:     title,
		Timestamp: ts,
		Type:      rssType(it),
		Meta:      meta,
	}
}

func author(it *gofeed.Item) string {
	if it.Author != nil && it.Author.Name != "" {
		return it.Author.Name
	}
	for _, p := range it.Authors {
		if p != nil && p.Name != "" {
			return p.Name
		}
	}
	return ""
}

// thumbnail 依次读取 media:thumbnail、media:content 与 feed 图片。
func thumbnail(it *gofeed.Item) string {
	if media, ok := it.Extensions["media"]; ok {
		for _, name := range []string{"thumbnail", "content"} {
			if u := firstAttr(media[name], "url"); u != "" {
				return u
			}
		}
	}
	if it.Image != nil {
		return it.Image.URL
	}
	return ""
}

func firstAttr(exts []ext.Extension, attr string) string {
	for _, e := range exts {
		if v := e.Attrs[attr]; v != "" {
			return v
		}
	}
	return ""
}

// rssType：图片附件或 media:thumbnail 为 image，视频附件为 video，其余为 article。
func rssType(it *gofeed.Item) core.ContentType {
	encType := ""
	if len(it.Enclosures) > 0 && it.Enclosures[0] != nil {
		encType = it.Enclosures[0].Type
	}
	if strings.HasPrefix(encType, "image/") || firstAttr(it.Extensions["media"]["thumbnail"], "url") != "" {
		return core.ContentImage
	}
	if strings.HasPrefix(encType, "video/") {
		return core.ContentVideo
	}
	return core.ContentArticle
}
