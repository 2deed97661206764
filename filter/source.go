package filter

import "github.com/rushteam/feedkit/core"

// SourceFilter 命中来源在 Sources 集合中的内容。
type SourceFilter struct {
	sources map[string]struct{}
}

// NewSourceFilter 创建来源过滤器。空列表不命中任何内容。
func NewSourceFilter(sources []string) *SourceFilter {
	set := make(map[string]struct{}, len(sources))
	for _, s := range sources {
		set[s] = struct{}{}
	}
	return &SourceFilter{sources: set}
}

func (f *SourceFilter) Name() string {
	return "filter.source"
}

func (f *SourceFilter) Match(_ *core.RankContext, item *core.ContentItem) bool {
	_, ok := f.sources[item.Source]
	return ok
}
