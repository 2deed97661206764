package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/rushteam/feedkit/core"
)

// DefaultNotificationLimit 是 All 未指定 limit 时的条数。
const DefaultNotificationLimit = 50

// NewNotification 是创建通知的参数。Priority 为空时为 medium。
type NewNotification struct {
	Title    string
	Message  string
	Priority core.Priority
	URL      string
	Source   string
	Meta     map[string]any
}

// Notifications 是通知仓库。
type Notifications struct {
	kv   core.KeyValueStore
	opts options
}

func NewNotifications(kv core.KeyValueStore, opts ...Option) *Notifications {
	return &Notifications{kv: kv, opts: newOptions(opts)}
}

func (n *Notifications) Create(ctx context.Context, in NewNotification) (string, error) {
	priority := in.Priority
	if priority == "" {
		priority = core.PriorityMedium
	}
	if !priority.Valid() {
		return "", core.NewDomainError(core.ModuleNotification, core.ErrorCodeInvalidInput,
			fmt.Sprintf("invalid priority %q", in.Priority))
	}
	meta := in.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	rec := &core.Notification{
		ID:        n.opts.newID(),
		Title:     in.Title,
		Message:   in.Message,
		Timestamp: n.opts.now().UTC(),
		Priority:  priority,
		URL:       in.URL,
		Source:    in.Source,
		Meta:      meta,
	}
	if err := hset(ctx, n.kv, keyNotifications, rec.ID, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// All 返回最新的 limit 条通知（时间倒序）。limit <= 0 时使用 DefaultNotificationLimit。
func (n *Notifications) All(ctx context.Context, limit int) ([]*core.Notification, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	all, err := n.sorted(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Unread 返回全部未读通知（时间倒序）。
func (n *Notifications) Unread(ctx context.Context) ([]*core.Notification, error) {
	all, err := n.sorted(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, it := range all {
		if !it.Read {
			out = append(out, it)
		}
	}
	return out, nil
}

func (n *Notifications) sorted(ctx context.Context) ([]*core.Notification, error) {
	all, err := hvalues[core.Notification](ctx, n.kv, keyNotifications)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].Timestamp.After(all[j].Timestamp)
		}
		return all[i].ID > all[j].ID
	})
	return all, nil
}

// MarkRead 标记已读；不存在时返回 NOT_FOUND 领域错误。
func (n *Notifications) MarkRead(ctx context.Context, id string) error {
	rec, ok, err := hget[core.Notification](ctx, n.kv, keyNotifications, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(core.ModuleNotification, "notification %s not found", id)
	}
	if rec.Read {
		return nil
	}
	rec.Read = true
	return hset(ctx, n.kv, keyNotifications, id, rec)
}

// MarkAllRead 标记全部已读，返回本次改变的条数。
func (n *Notifications) MarkAllRead(ctx context.Context) (int, error) {
	unread, err := n.Unread(ctx)
	if err != nil {
		return 0, err
	}
	for i, rec := range unread {
		rec.Read = true
		if err := hset(ctx, n.kv, keyNotifications, rec.ID, rec); err != nil {
			return i, err
		}
	}
	return len(unread), nil
}

func (n *Notifications) Delete(ctx context.Context, id string) error {
	return n.kv.HDel(ctx, keyNotifications, id)
}
