// Package source 实现内容接入层：各类 Connector、构建工厂、显式注册表与并发抓取。
//
// Connector.Fetch 从不返回错误：失败记录日志后返回空结果，单个来源失败不影响其他来源。
package source

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pkg/conv"
)

// Connector 是外部内容源适配器。
type Connector interface {
	ID() string
	Name() string
	Type() string
	Enabled() bool

	// Fetch 拉取 since 之后的内容（since 为 nil 表示不限）；失败返回空切片
	Fetch(ctx context.Context, since *time.Time) []*core.ContentItem

	// Validate 校验配置；不合法时返回 INVALID_INPUT 领域错误
	Validate() error
}

// TryFetcher 是可选接口：返回底层错误的 Fetch，供 FetchAll 统计失败。
type TryFetcher interface {
	TryFetch(ctx context.Context, since *time.Time) ([]*core.ContentItem, error)
}

// Connector 类型名。
const (
	TypeRSS        = "rss"
	TypeHackerNews = "hackernews"
	TypeReddit     = "reddit"
	TypeWebhook    = "webhook"
)

// Options 是 connector 共享的依赖。
type Options struct {
	Logger     *slog.Logger
	HTTPClient *http.Client
	UserAgent  string
}

// Option 配置 Options。
type Option func(*Options)

func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) { o.HTTPClient = c }
}

func WithUserAgent(ua string) Option {
	return func(o *Options) { o.UserAgent = ua }
}

// DefaultUserAgent 是 HTTP 请求默认携带的 User-Agent。
const DefaultUserAgent = "feedkit/0.1.0"

func newOptions(opts []Option) Options {
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	return o
}

// base 是各 connector 共享的身份字段与开关。
type base struct {
	id      string
	name    string
	typ     string
	enabled bool
	timeout time.Duration // 单次抓取超时，0 表示只受调用方 ctx 约束
	opts    Options
}

func newBase(id, name, typ string, cfg map[string]any, opts []Option) base {
	return base{
		id:      id,
		name:    name,
		typ:     typ,
		enabled: conv.ConfigGet(cfg, "enabled", true),
		timeout: conv.ConfigGetDuration(cfg, "timeout", 0),
		opts:    newOptions(opts),
	}
}

func (b *base) ID() string    { return b.id }
func (b *base) Name() string  { return b.name }
func (b *base) Type() string  { return b.typ }
func (b *base) Enabled() bool { return b.enabled }

// fetchContext 按 config.timeout（如 "10s" 或秒数）收紧抓取的 ctx。
func (b *base) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, b.timeout)
}

// swallow 记录错误并返回空结果。
func (b *base) swallow(ctx context.Context, items []*core.ContentItem, err error) []*core.ContentItem {
	if err != nil {
		b.opts.Logger.WarnContext(ctx, "source fetch failed",
			"source", b.id,
			"type", b.typ,
			"error", err,
		)
		return []*core.ContentItem{}
	}
	return items
}

func invalid(format string, args ...any) error {
	return core.WrapDomainError(core.ModuleSource, core.ErrorCodeInvalidInput, nil, format, args...)
}

func after(t time.Time, since *time.Time) bool {
	return since == nil || !t.Before(*since)
}
