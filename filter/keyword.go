package filter

import (
	"strings"

	"github.com/rushteam/feedkit/core"
)

// KeywordFilter 对 title + meta(JSON) 做大小写不敏感的子串匹配，任一关键词命中即匹配。
type KeywordFilter struct {
	keywords []string
}

func NewKeywordFilter(keywords []string) *KeywordFilter {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		lowered = append(lowered, strings.ToLower(k))
	}
	return &KeywordFilter{keywords: lowered}
}

func (f *KeywordFilter) Name() string {
	return "filter.keyword"
}

func (f *KeywordFilter) Match(_ *core.RankContext, item *core.ContentItem) bool {
	if len(f.keywords) == 0 {
		return false
	}
	text := strings.ToLower(item.SearchText())
	for _, k := range f.keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
