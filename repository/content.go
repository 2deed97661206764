package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/rushteam/feedkit/core"
)

// Content 是基于 KeyValueStore 的内容仓库。
type Content struct {
	kv core.KeyValueStore
}

var _ core.ContentStore = (*Content)(nil)

func NewContent(kv core.KeyValueStore) *Content {
	return &Content{kv: kv}
}

func contentScore(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// Store 按 ID upsert 内容。来源变化时同步移出旧来源索引。
func (c *Content) Store(ctx context.Context, items []*core.ContentItem) error {
	if len(items) == 0 {
		return nil
	}

	keys := make([]string, 0, len(items))
	for _, it := range items {
		keys = append(keys, keyContentItem+it.ID)
	}
	existing, err := c.kv.BatchGet(ctx, keys)
	if err != nil {
		return fmt.Errorf("load existing content: %w", err)
	}

	kvs := make(map[string][]byte, len(items))
	for _, it := range items {
		data, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("encode content %s: %w", it.ID, err)
		}
		kvs[keyContentItem+it.ID] = data
	}
	if err := c.kv.BatchSet(ctx, kvs); err != nil {
		return fmt.Errorf("store content: %w", err)
	}

	for _, it := range items {
		if old, ok := existing[keyContentItem+it.ID]; ok {
			var prev core.ContentItem
			if json.Unmarshal(old, &prev) == nil && prev.Source != it.Source {
				if err := c.kv.ZRem(ctx, keyContentSource+prev.Source, it.ID); err != nil {
					return err
				}
			}
		}
		score := contentScore(it.Timestamp)
		if err := c.kv.ZAdd(ctx, keyContentTimeline, score, it.ID); err != nil {
			return err
		}
		if err := c.kv.ZAdd(ctx, keyContentSource+it.Source, score, it.ID); err != nil {
			return err
		}
	}
	return nil
}

func (c *Content) Exists(ctx context.Context, ids []string) (map[string]bool, error) {
	out := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyContentItem + id
	}
	data, err := c.kv.BatchGet(ctx, keys)
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		if _, ok := data[k]; ok {
			out[ids[i]] = true
		}
	}
	return out, nil
}

// All 按时间倒序分页返回内容。
func (c *Content) All(ctx context.Context, limit, offset int) ([]*core.ContentItem, error) {
	if limit <= 0 {
		limit = core.DefaultContentPageSize
	}
	offset = max(offset, 0)
	ids, err := c.kv.ZRange(ctx, keyContentTimeline, int64(offset), int64(offset+limit-1))
	if err != nil {
		return nil, err
	}
	return c.load(ctx, ids)
}

func (c *Content) BySource(ctx context.Context, source string, since *time.Time) ([]*core.ContentItem, error) {
	lo := math.Inf(-1)
	if since != nil {
		lo = contentScore(*since)
	}
	ids, err := c.kv.ZRangeByScore(ctx, keyContentSource+source, lo, math.Inf(1))
	if err != nil {
		return nil, err
	}
	items, err := c.load(ctx, ids)
	if err != nil || since == nil {
		return items, err
	}
	return notBefore(items, *since), nil
}

func (c *Content) Since(ctx context.Context, since time.Time) ([]*core.ContentItem, error) {
	ids, err := c.kv.ZRangeByScore(ctx, keyContentTimeline, contentScore(since), math.Inf(1))
	if err != nil {
		return nil, err
	}
	items, err := c.load(ctx, ids)
	if err != nil {
		return nil, err
	}
	return notBefore(items, since), nil
}

// DeleteOlderThan 删除时间戳早于 t 的内容，返回删除条数。
func (c *Content) DeleteOlderThan(ctx context.Context, t time.Time) (int, error) {
	ids, err := c.kv.ZRangeByScore(ctx, keyContentTimeline, math.Inf(-1), contentScore(t))
	if err != nil {
		return 0, err
	}
	items, err := c.load(ctx, ids)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, it := range items {
		if !it.Timestamp.Before(t) {
			continue
		}
		if err := c.kv.Delete(ctx, keyContentItem+it.ID); err != nil {
			return deleted, err
		}
		if err := c.kv.ZRem(ctx, keyContentTimeline, it.ID); err != nil {
			return deleted, err
		}
		if err := c.kv.ZRem(ctx, keyContentSource+it.Source, it.ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// load 按 ids 顺序批量读取内容，跳过索引中残留但已不存在的条目。
func (c *Content) load(ctx context.Context, ids []string) ([]*core.ContentItem, error) {
	out := make([]*core.ContentItem, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyContentItem + id
	}
	data, err := c.kv.BatchGet(ctx, keys)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		raw, ok := data[k]
		if !ok {
			continue
		}
		var it core.ContentItem
		if err := json.Unmarshal(raw, &it); err != nil {
			return nil, fmt.Errorf("decode %s: %w", k, err)
		}
		out = append(out, &it)
	}
	return out, nil
}

func notBefore(items []*core.ContentItem, t time.Time) []*core.ContentItem {
	out := items[:0]
	for _, it := range items {
		if !it.Timestamp.Before(t) {
			out = append(out, it)
		}
	}
	return out
}
