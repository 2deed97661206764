package rerank

import (
	"context"

	"github.com/rushteam/feedkit/algorithm"
	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// LimitNode 是分页截断节点，返回 [offset, offset+maxItems) 区间。
// 通常位于 Pipeline 末尾。
//
// 越界时返回实际可得的部分，不报错、不补齐；结果长度恒为
// min(maxItems, max(0, len(items)-offset))。
type LimitNode struct {
	// Config 为 nil 时不截断
	Config *algorithm.LimitConfig
}

func (n *LimitNode) Name() string {
	return "rerank.limit"
}

func (n *LimitNode) Kind() pipeline.Kind {
	return pipeline.KindLimit
}

func (n *LimitNode) Process(
	_ context.Context,
	_ *core.RankContext,
	items []*core.ScoredItem,
) ([]*core.ScoredItem, error) {
	return Limit(items, n.Config), nil
}

// Limit 执行分页。负 offset 视为 0。
func Limit(items []*core.ScoredItem, cfg *algorithm.LimitConfig) []*core.ScoredItem {
	if cfg == nil {
		return items
	}
	lo := max(cfg.Offset, 0)
	if lo >= len(items) || cfg.MaxItems <= 0 {
		return []*core.ScoredItem{}
	}
	// 先算剩余条数，避免 offset+maxItems 溢出
	hi := lo + min(cfg.MaxItems, len(items)-lo)
	// 限定容量，调用方 append 不会覆盖底层数组
	return items[lo:hi:hi]
}
