package filter

import "github.com/rushteam/feedkit/core"

// ContentTypeFilter 命中类型在集合中的内容。
type ContentTypeFilter struct {
	types map[core.ContentType]struct{}
}

func NewContentTypeFilter(types []string) *ContentTypeFilter {
	set := make(map[core.ContentType]struct{}, len(types))
	for _, t := range types {
		set[core.ContentType(t)] = struct{}{}
	}
	return &ContentTypeFilter{types: set}
}

func (f *ContentTypeFilter) Name() string {
	return "filter.content_type"
}

func (f *ContentTypeFilter) Match(_ *core.RankContext, item *core.ContentItem) bool {
	_, ok := f.types[item.Type]
	return ok
}
