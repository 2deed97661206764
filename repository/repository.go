// Package repository 在 core.KeyValueStore 之上实现内容、算法、通知与内容源的持久化。
//
// 记录统一以 JSON 存储，适用于 store.MemoryStore 与 store.RedisStore。
//
// Key 约定：
//
//	content:item:{id}        内容 JSON
//	content:timeline         全部内容的有序集合（score 为时间戳毫秒）
//	content:source:{source}  某来源内容的有序集合
//	algorithms               Hash，field 为算法 ID
//	notifications            Hash，field 为通知 ID
//	sources                  Hash，field 为内容源 ID
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rushteam/feedkit/core"
)

const (
	keyContentItem     = "content:item:"
	keyContentTimeline = "content:timeline"
	keyContentSource   = "content:source:"
	keyAlgorithms      = "algorithms"
	keyNotifications   = "notifications"
	keySources         = "sources"
)

// Option 配置 repository 的时钟与 ID 生成（主要用于测试）。
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock 替换当前时间来源。
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator 替换 ID 生成器，默认 uuid v4。
func WithIDGenerator(f func() string) Option {
	return func(o *options) { o.newID = f }
}

func newOptions(opts []Option) options {
	o := options{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func notFound(module, format string, args ...any) error {
	return core.NewDomainError(module, core.ErrorCodeNotFound, fmt.Sprintf(format, args...))
}

// hget 读取 Hash 字段并解码；不存在时返回 ok=false。
func hget[T any](ctx context.Context, kv core.KeyValueStore, key, field string) (*T, bool, error) {
	data, err := kv.HGet(ctx, key, field)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false, fmt.Errorf("decode %s/%s: %w", key, field, err)
	}
	return &v, true, nil
}

func hset(ctx context.Context, kv core.KeyValueStore, key, field string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", key, field, err)
	}
	return kv.HSet(ctx, key, field, data)
}

// hvalues 读取整个 Hash 并逐条解码。
func hvalues[T any](ctx context.Context, kv core.KeyValueStore, key string) ([]*T, error) {
	all, err := kv.HGetAll(ctx, key)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(all))
	for field, data := range all {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", key, field, err)
		}
		out = append(out, &v)
	}
	return out, nil
}
