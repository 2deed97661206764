package pipeline

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// Hook 在每个 Node 执行前后被调用，可用于打点、审计或改写 items。
//
// BeforeNode 返回的 items 作为 Node 的输入；AfterNode 收到 Node 的输出与错误，
// 返回值作为下一个 Node 的输入。任何 Hook 返回错误都会中断 Pipeline。
type Hook interface {
	BeforeNode(ctx context.Context, rctx *core.RankContext, node Node, items []*core.ScoredItem) ([]*core.ScoredItem, error)
	AfterNode(ctx context.Context, rctx *core.RankContext, node Node, items []*core.ScoredItem, err error) ([]*core.ScoredItem, error)
}

// Pipeline 把排序逻辑拆成可组合的 Node 链：filter -> score -> diversity -> sort -> limit。
type Pipeline struct {
	Nodes []Node
	Hooks []Hook
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RankContext,
	items []*core.ScoredItem,
) ([]*core.ScoredItem, error) {
	cur := items
	for _, node := range p.Nodes {
		var err error
		for _, h := range p.Hooks {
			if cur, err = h.BeforeNode(ctx, rctx, node, cur); err != nil {
				return nil, err
			}
		}

		next, err := node.Process(ctx, rctx, cur)
		for _, h := range p.Hooks {
			next, err = h.AfterNode(ctx, rctx, node, next, err)
		}
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
