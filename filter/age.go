package filter

import "github.com/rushteam/feedkit/core"

// AgeFilter 命中年龄不超过 MaxAge 秒的内容；MaxAge 为 0 时恒匹配，负数时不命中任何已发布内容。
type AgeFilter struct {
	MaxAge int64
}

func (f *AgeFilter) Name() string {
	return "filter.age"
}

func (f *AgeFilter) Match(rctx *core.RankContext, item *core.ContentItem) bool {
	if f.MaxAge == 0 {
		return true
	}
	return item.Age(rctx.Clock()).Seconds() <= float64(f.MaxAge)
}
