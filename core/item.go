package core

import "github.com/rushteam/feedkit/pkg/utils"

// BreakdownBase 是 ScoreBreakdown 中初始分数的 key。
const BreakdownBase = "base"

// ScoredItem 是排序链路中的统一承载结构：内容、分数、分数明细、标签。
// ScoreBreakdown 记录每个 booster 贡献的乘数，用于审计；Labels 用于解释与观测。
type ScoredItem struct {
	Content        *ContentItem           `json:"content"`
	Score          float64                `json:"score"`
	ScoreBreakdown map[string]float64     `json:"scoreBreakdown,omitempty"`
	Labels         map[string]utils.Label `json:"labels,omitempty"`
}

// NewScoredItem 以初始分 1.0 包装一条内容。
func NewScoredItem(c *ContentItem) *ScoredItem {
	return &ScoredItem{
		Content:        c,
		Score:          1.0,
		ScoreBreakdown: map[string]float64{BreakdownBase: 1.0},
	}
}

// WrapAll 批量包装内容，顺序不变。
func WrapAll(items []*ContentItem) []*ScoredItem {
	out := make([]*ScoredItem, 0, len(items))
	for _, c := range items {
		if c == nil {
			continue
		}
		out = append(out, NewScoredItem(c))
	}
	return out
}

// Contents 解出内容列表，顺序不变。
func Contents(items []*ScoredItem) []*ContentItem {
	out := make([]*ContentItem, 0, len(items))
	for _, it := range items {
		out = append(out, it.Content)
	}
	return out
}

// Clone 返回浅拷贝：Content 共享（不可变），分数明细与标签复制。
func (it *ScoredItem) Clone() *ScoredItem {
	cp := &ScoredItem{
		Content: it.Content,
		Score:   it.Score,
	}
	if it.ScoreBreakdown != nil {
		cp.ScoreBreakdown = make(map[string]float64, len(it.ScoreBreakdown))
		for k, v := range it.ScoreBreakdown {
			cp.ScoreBreakdown[k] = v
		}
	}
	if it.Labels != nil {
		cp.Labels = make(map[string]utils.Label, len(it.Labels))
		for k, v := range it.Labels {
			cp.Labels[k] = v
		}
	}
	return cp
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *ScoredItem) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
