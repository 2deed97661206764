package source

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pkg/conv"
)

// ErrInvalidSecret 表示 webhook 请求携带的 secret 不匹配。
var ErrInvalidSecret = core.NewDomainError(core.ModuleSource, core.ErrorCodeInvalidInput, "webhook: invalid secret")

// Webhook 接收推送的 payload，转换为内容后排队，等待下一次 Fetch 取走。
//
// 配置：secret、triggerNotification、enabled。并发安全。
type Webhook struct {
	base
	Secret              string
	TriggerNotification bool

	mu      sync.Mutex
	pending []*core.ContentItem
	now     func() time.Time
}

func NewWebhook(id, name string, cfg map[string]any, opts ...Option) (*Webhook, error) {
	if name == "" {
		name = "Webhook"
	}
	return &Webhook{
		base:                newBase(id, name, TypeWebhook, cfg, opts),
		Secret:              conv.ConfigGet(cfg, "secret", ""),
		TriggerNotification: conv.ConfigGet(cfg, "triggerNotification", false),
		now:                 time.Now,
	}, nil
}

func (w *Webhook) Validate() error { return nil }

// Process 校验 secret，把 payload 转为内容并加入待取队列。
//
// payload 字段：id、url、title、timestamp（RFC3339 字符串或毫秒时间戳）、type，
// 其余字段原样进入 meta（secret 除外）。
func (w *Webhook) Process(payload map[string]any) (*core.ContentItem, error) {
	if w.Secret != "" && conv.ConfigGet(payload, "secret", "") != w.Secret {
		return nil, ErrInvalidSecret
	}

	now := w.now()
	id := conv.ConfigGet(payload, "id", "")
	if id == "" {
		id = "webhook-" + uuid.NewString()
	}
	title := conv.ConfigGet(payload, "title", "")
	if title == "" {
		title = "Webhook Notification"
	}
	typ := core.ContentType(conv.ConfigGet(payload, "type", ""))
	if !typ.Valid() {
		typ = core.ContentNotification
	}

	meta := make(core.Meta, len(payload)+2)
	for k, v := range payload {
		if k == "secret" {
			continue
		}
		meta[k] = v
	}
	meta["webhookReceived"] = now.UTC().Format(time.RFC3339)
	meta[core.MetaTriggerNotification] = w.TriggerNotification

	item := &core.ContentItem{
		ID:        id,
		Source:    w.id,
		URL:       conv.ConfigGet(payload, "url", ""),
		Title:     title,
		Timestamp: payloadTime(payload["timestamp"], now),
		Type:      typ,
		Meta:      meta,
	}

	w.mu.Lock()
	w.pending = append(w.pending, item)
	w.mu.Unlock()
	return item, nil
}

func payloadTime(v any, fallback time.Time) time.Time {
	switch t := v.(type) {
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	case time.Time:
		return t
	default:
		if ms, ok := conv.ToFloat64(v); ok {
			return time.UnixMilli(int64(ms)).UTC()
		}
	}
	return fallback
}

func (w *Webhook) Fetch(ctx context.Context, since *time.Time) []*core.ContentItem {
	items, _ := w.TryFetch(ctx, since)
	return items
}

// TryFetch 取走全部待取内容（since 之前的也会被清出队列）。
func (w *Webhook) TryFetch(_ context.Context, since *time.Time) ([]*core.ContentItem, error) {
	if !w.enabled {
		return []*core.ContentItem{}, nil
	}
	w.mu.Lock()
	pending := w.pending
	w.pending = nil
	w.mu.Unlock()

	out := make([]*core.ContentItem, 0, len(pending))
	for _, it := range pending {
		if after(it.Timestamp, since) {
			out = append(out, it)
		}
	}
	return out, nil
}

// Pending 返回待取内容条数。
func (w *Webhook) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// ClearPending 丢弃全部待取内容。
func (w *Webhook) ClearPending() {
	w.mu.Lock()
	w.pending = nil
	w.mu.Unlock()
}
