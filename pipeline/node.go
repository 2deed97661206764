package pipeline

import (
	"context"

	"github.com/rushteam/feedkit/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindFilter    Kind = "filter"    // 过滤阶段：剔除不满足全部过滤器的内容
	KindScore     Kind = "score"     // 打分阶段：按 booster 乘性累积分数
	KindDiversity Kind = "diversity" // 多样性阶段：按来源限流、按类型交织
	KindSort      Kind = "sort"      // 排序阶段：时间/分数/随机
	KindLimit     Kind = "limit"     // 分页阶段：offset + maxItems 截取
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态；Node 不得原地修改输入切片或其中的 item。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RankContext,
		items []*core.ScoredItem,
	) ([]*core.ScoredItem, error)
}

// NodeFunc 把普通函数适配为 Node，便于测试与临时组合。
type NodeFunc struct {
	NodeName string
	NodeKind Kind
	Fn       func(ctx context.Context, rctx *core.RankContext, items []*core.ScoredItem) ([]*core.ScoredItem, error)
}

func (n *NodeFunc) Name() string { return n.NodeName }

func (n *NodeFunc) Kind() Kind { return n.NodeKind }

func (n *NodeFunc) Process(ctx context.Context, rctx *core.RankContext, items []*core.ScoredItem) ([]*core.ScoredItem, error) {
	return n.Fn(ctx, rctx, items)
}
