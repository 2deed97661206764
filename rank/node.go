package rank

import (
	"context"
	"time"

	"github.com/rushteam/feedkit/algorithm"
	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
)

// LabelBoostedBy 记录对分数产生影响的 booster。
const LabelBoostedBy = "boosted_by"

// BoostNode 是打分阶段的 Pipeline Node。
// - 复制输入 item 后再改分，输入不受影响
// - 写入 ScoreBreakdown[type]（同类型重复时后者覆盖）
// - 写入 labels：boosted_by
// - 不改变顺序
type BoostNode struct {
	Boosters []Booster
}

// NewBoostNode 根据 booster 配置构建 Node。
func NewBoostNode(boosters []algorithm.BoosterConfig) *BoostNode {
	bs := make([]Booster, 0, len(boosters))
	for _, b := range boosters {
		bs = append(bs, New(b))
	}
	return &BoostNode{Boosters: bs}
}

func (n *BoostNode) Name() string        { return "rank.boost" }
func (n *BoostNode) Kind() pipeline.Kind { return pipeline.KindScore }

func (n *BoostNode) Process(
	_ context.Context,
	rctx *core.RankContext,
	items []*core.ScoredItem,
) ([]*core.ScoredItem, error) {
	if len(n.Boosters) == 0 {
		return items, nil
	}

	out := make([]*core.ScoredItem, 0, len(items))
	for _, it := range items {
		if it == nil || it.Content == nil {
			continue
		}
		cp := it.Clone()
		if cp.ScoreBreakdown == nil {
			cp.ScoreBreakdown = make(map[string]float64, len(n.Boosters)+1)
		}
		for _, b := range n.Boosters {
			boost := b.Boost(rctx, cp.Content)
			cp.Score *= boost
			cp.ScoreBreakdown[string(b.Type())] = boost
			if boost != 1.0 {
				cp.PutLabel(LabelBoostedBy, utils.Label{Value: string(b.Type()), Source: "rank"})
			}
		}
		out = append(out, cp)
	}
	return out, nil
}

// Apply 包装内容并执行打分，now 为年龄计算的参考时间。顺序与输入一致。
func Apply(items []*core.ContentItem, boosters []algorithm.BoosterConfig, now time.Time) []*core.ScoredItem {
	scored := core.WrapAll(items)
	out, _ := NewBoostNode(boosters).Process(context.Background(), &core.RankContext{Now: now}, scored)
	return out
}
