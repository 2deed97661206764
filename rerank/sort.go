package rerank

import (
	"context"
	"slices"
	"sort"

	"github.com/rushteam/feedkit/algorithm"
	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// DefaultSort 是未配置 sort 时使用的排序：分数降序。
var DefaultSort = algorithm.SortConfig{Type: algorithm.SortScore, Direction: algorithm.Desc}

// SortNode 是最终排序 Node。
//
// chronological/score 先稳定升序，desc 再整体反转，保证并列项顺序确定；
// random 为 Fisher–Yates 洗牌，随机源取自 RankContext；未知类型保持原顺序。
type SortNode struct {
	Config *algorithm.SortConfig
}

func (n *SortNode) Name() string {
	return "rerank.sort"
}

func (n *SortNode) Kind() pipeline.Kind {
	return pipeline.KindSort
}

func (n *SortNode) Process(
	_ context.Context,
	rctx *core.RankContext,
	items []*core.ScoredItem,
) ([]*core.ScoredItem, error) {
	return Sort(items, n.Config, rctx), nil
}

// Sort 返回排序后的新切片，输入不变。cfg 为 nil 时按 DefaultSort 排序。
func Sort(items []*core.ScoredItem, cfg *algorithm.SortConfig, rctx *core.RankContext) []*core.ScoredItem {
	if cfg == nil {
		cfg = &DefaultSort
	}

	out := make([]*core.ScoredItem, len(items))
	copy(out, items)

	switch cfg.Type {
	case algorithm.SortChronological:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Content.Timestamp.Before(out[j].Content.Timestamp)
		})
	case algorithm.SortScore:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Score < out[j].Score
		})
	case algorithm.SortRandom:
		shuffle(out, rctx)
		return out
	default:
		return out
	}

	if cfg.Direction == algorithm.Desc {
		slices.Reverse(out)
	}
	return out
}

func shuffle(items []*core.ScoredItem, rctx *core.RankContext) {
	for i := len(items) - 1; i > 0; i-- {
		j := rctx.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
