package core

import (
	"math/rand/v2"
	"time"
)

// RankContext 承载一次排序请求的环境信息，贯穿整个 Pipeline 透传。
type RankContext struct {
	// AlgorithmID 是当前执行的算法 ID（自定义算法为空）
	AlgorithmID string

	// Now 是本次请求的参考时间，age filter 与 recency booster 以此计算年龄。
	// 为零值时使用 time.Now()。
	Now time.Time

	// Rand 是 random 排序使用的随机源；为 nil 时使用全局（不可复现）随机源。
	Rand *rand.Rand

	// Params 请求级上下文参数（观测/调试用）
	Params map[string]any
}

// Clock 返回本次请求的参考时间。
func (rctx *RankContext) Clock() time.Time {
	if rctx == nil || rctx.Now.IsZero() {
		return time.Now()
	}
	return rctx.Now
}

// IntN 返回 [0, n) 的随机整数。
func (rctx *RankContext) IntN(n int) int {
	if rctx != nil && rctx.Rand != nil {
		return rctx.Rand.IntN(n)
	}
	return rand.IntN(n)
}
