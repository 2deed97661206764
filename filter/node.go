package filter

import (
	"context"
	"time"

	"github.com/rushteam/feedkit/algorithm"
	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// Node 是过滤阶段的 Pipeline Node。
// 只有通过全部规则的内容才会保留；输出为新切片，输入不被修改。
type Node struct {
	Rules []Rule
}

// NewNode 根据过滤器配置构建 Node。
func NewNode(filters []algorithm.FilterConfig) *Node {
	return &Node{Rules: Rules(filters)}
}

func (n *Node) Name() string {
	return "filter.node"
}

func (n *Node) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *Node) Process(
	_ context.Context,
	rctx *core.RankContext,
	items []*core.ScoredItem,
) ([]*core.ScoredItem, error) {
	if len(n.Rules) == 0 {
		return items, nil
	}

	out := make([]*core.ScoredItem, 0, len(items))
	for _, it := range items {
		if it == nil || it.Content == nil {
			continue
		}
		if n.keep(rctx, it.Content) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (n *Node) keep(rctx *core.RankContext, item *core.ContentItem) bool {
	for _, r := range n.Rules {
		if !r.Keep(rctx, item) {
			return false
		}
	}
	return true
}

// Apply 对内容列表执行过滤，now 为年龄计算的参考时间。
// 没有过滤器时原样返回；否则返回新切片。
func Apply(items []*core.ContentItem, filters []algorithm.FilterConfig, now time.Time) []*core.ContentItem {
	if len(filters) == 0 {
		return items
	}
	n := NewNode(filters)
	rctx := &core.RankContext{Now: now}
	out := make([]*core.ContentItem, 0, len(items))
	for _, it := range items {
		if it != nil && n.keep(rctx, it) {
			out = append(out, it)
		}
	}
	return out
}
