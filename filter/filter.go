// Package filter 实现过滤阶段：按算法配置的过滤器列表剔除内容。
//
// 多个过滤器之间为 AND 关系；mode=exclude 时对匹配结果取反。
// 未知的过滤器类型恒为匹配（fail open），严格性由 algorithm.Validate 保证。
package filter

import (
	"github.com/rushteam/feedkit/algorithm"
	"github.com/rushteam/feedkit/core"
)

// Matcher 判断一条内容是否命中过滤条件（未取反）。
type Matcher interface {
	// Name 返回过滤器名称
	Name() string

	// Match 判断 item 是否命中；rctx 提供请求时间等环境信息
	Match(rctx *core.RankContext, item *core.ContentItem) bool
}

// Rule 是一个带模式的 Matcher。
type Rule struct {
	Matcher Matcher
	Exclude bool
}

// Keep 返回 item 是否通过该规则。
func (r Rule) Keep(rctx *core.RankContext, item *core.ContentItem) bool {
	return r.Matcher.Match(rctx, item) != r.Exclude
}

// New 根据配置构建 Matcher。未知类型返回 Always。
func New(cfg algorithm.FilterConfig) Matcher {
	switch cfg.Type {
	case algorithm.FilterSource:
		return NewSourceFilter(cfg.Values)
	case algorithm.FilterKeyword:
		return NewKeywordFilter(cfg.Values)
	case algorithm.FilterContentType:
		return NewContentTypeFilter(cfg.Values)
	case algorithm.FilterAge:
		f := &AgeFilter{}
		if cfg.MaxAge != nil {
			f.MaxAge = *cfg.MaxAge
		}
		return f
	default:
		return Always{}
	}
}

// Rules 把配置列表编译为规则列表，顺序不变。
func Rules(filters []algorithm.FilterConfig) []Rule {
	rules := make([]Rule, 0, len(filters))
	for _, f := range filters {
		rules = append(rules, Rule{Matcher: New(f), Exclude: f.Mode == algorithm.ModeExclude})
	}
	return rules
}

// Always 恒匹配，用于未知过滤器类型。
type Always struct{}

func (Always) Name() string { return "filter.always" }

func (Always) Match(*core.RankContext, *core.ContentItem) bool { return true }
