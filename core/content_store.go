package core

import (
	"context"
	"time"
)

// DefaultContentPageSize 是 ContentStore.All 未指定 limit 时的条数。
const DefaultContentPageSize = 100

// ContentStore 是内容持久化的领域接口。
//
// 实现：
//   - repository.Content（基于 KeyValueStore：MemoryStore / RedisStore）
//   - postgres.ContentStore（基于 sqlx + lib/pq）
type ContentStore interface {
	// Store 按 ID upsert 内容
	Store(ctx context.Context, items []*ContentItem) error

	// Exists 返回 ids 中已存储的 ID 集合
	Exists(ctx context.Context, ids []string) (map[string]bool, error)

	// All 按时间倒序分页返回内容；limit <= 0 时使用 DefaultContentPageSize
	All(ctx context.Context, limit, offset int) ([]*ContentItem, error)

	// BySource 返回某来源的内容（时间倒序）；since 非空时只返回其后的内容
	BySource(ctx context.Context, source string, since *time.Time) ([]*ContentItem, error)

	// Since 返回 since 之后的全部内容（时间倒序）
	Since(ctx context.Context, since time.Time) ([]*ContentItem, error)

	// DeleteOlderThan 删除早于 t 的内容，返回删除条数
	DeleteOlderThan(ctx context.Context, t time.Time) (int, error)
}
