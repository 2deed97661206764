// Package rerank 实现排序链路的后半段：多样性约束、最终排序与分页。
package rerank

import (
	"context"
	"log/slog"

	"github.com/rushteam/feedkit/algorithm"
	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// Diversity 是多样性重排 Node，约束按固定顺序生效：
//  1. MaxPerSource：单次正向遍历，每个来源最多保留前 k 条
//  2. MixContentTypes：按类型分组（组内保持相对顺序），按首次出现的类型顺序轮转交织
//  3. MinDifferentSources：仅检查，不足时不做补齐
type Diversity struct {
	Config *algorithm.DiversityConfig

	// Logger 记录 MinDifferentSources 未满足的情况；为 nil 时使用 slog.Default()
	Logger *slog.Logger
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindDiversity
}

func (n *Diversity) Process(
	ctx context.Context,
	rctx *core.RankContext,
	items []*core.ScoredItem,
) ([]*core.ScoredItem, error) {
	out := Diversify(items, n.Config)
	if n.Config != nil && n.Config.MinDifferentSources > 0 {
		if got := DistinctSources(out); got < n.Config.MinDifferentSources {
			logger := n.Logger
			if logger == nil {
				logger = slog.Default()
			}
			algorithmID := ""
			if rctx != nil {
				algorithmID = rctx.AlgorithmID
			}
			logger.DebugContext(ctx, "diversity: not enough distinct sources",
				"algorithm", algorithmID,
				"want", n.Config.MinDifferentSources,
				"got", got,
			)
		}
	}
	return out, nil
}

// Diversify 执行多样性约束。cfg 为 nil 时原样返回；否则返回新切片。
func Diversify(items []*core.ScoredItem, cfg *algorithm.DiversityConfig) []*core.ScoredItem {
	if cfg == nil {
		return items
	}
	out := make([]*core.ScoredItem, len(items))
	copy(out, items)

	if cfg.MaxPerSource > 0 {
		out = limitPerSource(out, cfg.MaxPerSource)
	}
	if cfg.MixContentTypes {
		out = mixContentTypes(out)
	}
	// MinDifferentSources 不做纠正，见 Diversity.Process
	return out
}

// DistinctSources 返回 items 中不同来源的数量。
func DistinctSources(items []*core.ScoredItem) int {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		seen[it.Content.Source] = struct{}{}
	}
	return len(seen)
}

func limitPerSource(items []*core.ScoredItem, k int) []*core.ScoredItem {
	counts := make(map[string]int, 16)
	out := items[:0]
	for _, it := range items {
		src := it.Content.Source
		if counts[src] >= k {
			continue
		}
		counts[src]++
		out = append(out, it)
	}
	return out
}

func mixContentTypes(items []*core.ScoredItem) []*core.ScoredItem {
	var order []core.ContentType
	groups := make(map[core.ContentType][]*core.ScoredItem, 8)
	longest := 0
	for _, it := range items {
		t := it.Content.Type
		if _, ok := groups[t]; !ok {
			order = append(order, t)
		}
		groups[t] = append(groups[t], it)
		if len(groups[t]) > longest {
			longest = len(groups[t])
		}
	}

	out := make([]*core.ScoredItem, 0, len(items))
	for i := 0; i < longest; i++ {
		for _, t := range order {
			if g := groups[t]; i < len(g) {
				out = append(out, g[i])
			}
		}
	}
	return out
}
