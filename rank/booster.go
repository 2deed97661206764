// Package rank 实现打分阶段：每条内容从 1.0 起，按 booster 声明顺序连乘。
package rank

import (
	"github.com/rushteam/feedkit/algorithm"
	"github.com/rushteam/feedkit/core"
)

// Booster 计算单条内容的乘数。返回 1 表示不影响分数。
type Booster interface {
	// Type 返回写入 ScoreBreakdown 的 key
	Type() algorithm.BoosterType

	Boost(rctx *core.RankContext, item *core.ContentItem) float64
}

// New 根据配置构建 Booster。未知类型返回 Noop（乘数恒为 1）。
func New(cfg algorithm.BoosterConfig) Booster {
	switch cfg.Type {
	case algorithm.BoosterRecency:
		return &Recency{Weight: cfg.Weight}
	case algorithm.BoosterEngagement:
		return &Engagement{Weight: cfg.Weight}
	case algorithm.BoosterSourceAffinity:
		return NewSourceAffinity(cfg.Weight, cfg.PreferredSources())
	default:
		return Noop{BoosterType: cfg.Type}
	}
}

// Noop 对所有内容返回 1。
type Noop struct {
	BoosterType algorithm.BoosterType
}

func (n Noop) Type() algorithm.BoosterType { return n.BoosterType }

func (Noop) Boost(*core.RankContext, *core.ContentItem) float64 { return 1.0 }
