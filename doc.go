// Package feedkit 是一个可编程的 feed 聚合引擎。
//
// 设计要点：
// - Algorithm-as-data: 排序逻辑写在 YAML 里（filters → boosters → diversity → sort → limit），由 engine 解释执行
// - Pipeline-first: 每个阶段都是一个 pipeline.Node，Hook 负责计数与打点
// - Breakdown-first: 每个 booster 的乘数记录在 ScoreBreakdown 中，结果可解释
// - Connector 可扩展: 自定义 source.Connector 注册到 Factory 即可接入新来源
package feedkit

import (
	"github.com/rushteam/feedkit/algorithm"
	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/engine"
	"github.com/rushteam/feedkit/pipeline"
)

// 轻量 facade：便于用户直接 import "feedkit" 使用核心抽象。
type (
	Engine      = engine.Engine
	Result      = engine.Result
	Algorithm   = algorithm.Config
	ContentItem = core.ContentItem
	ScoredItem  = core.ScoredItem
	Pipeline    = pipeline.Pipeline
	Node        = pipeline.Node
	Kind        = pipeline.Kind
)

const (
	KindFilter    = pipeline.KindFilter
	KindScore     = pipeline.KindScore
	KindDiversity = pipeline.KindDiversity
	KindSort      = pipeline.KindSort
	KindLimit     = pipeline.KindLimit
)

// New 创建一个使用默认选项的 Engine。
func New(opts ...engine.Option) *Engine { return engine.New(opts...) }

// ParseAlgorithm 解析 YAML 算法配置（不做校验）。
func ParseAlgorithm(data []byte) (*Algorithm, error) { return algorithm.Parse(data) }
