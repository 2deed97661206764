package rank

import (
	"math"

	"github.com/rushteam/feedkit/algorithm"
	"github.com/rushteam/feedkit/core"
)

// Engagement 按互动量对数放大：
//
//	raw   = score + upvotes + likes + 2*comments + 3*shares
//	boost = 1 + log10(raw+1) * w   (raw == 0 时为 1)
type Engagement struct {
	Weight float64
}

func (e *Engagement) Type() algorithm.BoosterType {
	return algorithm.BoosterEngagement
}

func (e *Engagement) Boost(_ *core.RankContext, item *core.ContentItem) float64 {
	raw := RawEngagement(item.Meta)
	if raw == 0 {
		return 1.0
	}
	return 1.0 + math.Log10(raw+1)*e.Weight
}

// RawEngagement 汇总 meta 中的互动字段，缺失或非数值按 0 计。
func RawEngagement(m core.Meta) float64 {
	return m.Number(core.MetaScore) +
		m.Number(core.MetaUpvotes) +
		m.Number(core.MetaLikes) +
		m.Number(core.MetaComments)*2 +
		m.Number(core.MetaShares)*3
}
