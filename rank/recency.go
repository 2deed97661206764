package rank

import (
	"math"

	"github.com/rushteam/feedkit/algorithm"
	"github.com/rushteam/feedkit/core"
)

// Recency 按指数衰减奖励新内容：boost = 1 + exp(-ageHours/(24*w)) * w。
// 越新越接近 1+w，越旧越接近 1；w == 0 时恒为 1。
type Recency struct {
	Weight float64
}

func (r *Recency) Type() algorithm.BoosterType {
	return algorithm.BoosterRecency
}

func (r *Recency) Boost(rctx *core.RankContext, item *core.ContentItem) float64 {
	if r.Weight == 0 {
		return 1.0
	}
	ageHours := item.Age(rctx.Clock()).Hours()
	decay := math.Exp(-ageHours / (24 * r.Weight))
	return 1.0 + decay*r.Weight
}
