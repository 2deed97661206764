package filter

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/feedkit/algorithm"
	"github.com/rushteam/feedkit/core"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func item(id, source string, typ core.ContentType, age time.Duration, meta core.Meta) *core.ContentItem {
	return &core.ContentItem{
		ID:        id,
		Source:    source,
		Title:     "title " + id,
		Timestamp: now.Add(-age),
		Type:      typ,
		Meta:      meta,
	}
}

func ids(items []*core.ContentItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApply(t *testing.T) {
	items := []*core.ContentItem{
		item("1", "hn", core.ContentArticle, time.Minute, core.Meta{"author": "Alice"}),
		item("2", "reddit", core.ContentImage, 2*time.Hour, core.Meta{"publisher": "AT&T <Labs>"}),
		item("3", "rss", core.ContentVideo, 30*time.Minute, core.Meta{"description": "Golang release notes"}),
		item("4", "hn", core.ContentEvent, 48*time.Hour, nil),
	}

	tests := []struct {
		name    string
		filters []algorithm.FilterConfig
		want    []string
	}{
		{
			name: "no filters",
			want: []string{"1", "2", "3", "4"},
		},
		{
			name:    "source include",
			filters: []algorithm.FilterConfig{{Type: algorithm.FilterSource, Mode: algorithm.ModeInclude, Values: []string{"hn"}}},
			want:    []string{"1", "4"},
		},
		{
			name:    "source exclude",
			filters: []algorithm.FilterConfig{{Type: algorithm.FilterSource, Mode: algorithm.ModeExclude, Values: []string{"hn"}}},
			want:    []string{"2", "3"},
		},
		{
			name:    "keyword matches meta json case-insensitively",
			filters: []algorithm.FilterConfig{{Type: algorithm.FilterKeyword, Mode: algorithm.ModeInclude, Values: []string{"GOLANG", "alice"}}},
			want:    []string{"1", "3"},
		},
		{
			name:    "keyword matches title",
			filters: []algorithm.FilterConfig{{Type: algorithm.FilterKeyword, Mode: algorithm.ModeInclude, Values: []string{"Title 2"}}},
			want:    []string{"2"},
		},
		{
			name:    "keyword with html characters matches meta verbatim",
			filters: []algorithm.FilterConfig{{Type: algorithm.FilterKeyword, Mode: algorithm.ModeInclude, Values: []string{"at&t", "<labs>"}}},
			want:    []string{"2"},
		},
		{
			name:    "empty keyword list matches nothing",
			filters: []algorithm.FilterConfig{{Type: algorithm.FilterKeyword, Mode: algorithm.ModeInclude}},
			want:    []string{},
		},
		{
			name:    "content type",
			filters: []algorithm.FilterConfig{{Type: algorithm.FilterContentType, Mode: algorithm.ModeInclude, Values: []string{"image", "video"}}},
			want:    []string{"2", "3"},
		},
		{
			name:    "age excludes two hour old item",
			filters: []algorithm.FilterConfig{{Type: algorithm.FilterAge, Mode: algorithm.ModeInclude, MaxAge: algorithm.Int64(3600)}},
			want:    []string{"1", "3"},
		},
		{
			name:    "age without maxAge never excludes",
			filters: []algorithm.FilterConfig{{Type: algorithm.FilterAge, Mode: algorithm.ModeInclude}},
			want:    []string{"1", "2", "3", "4"},
		},
		{
			name:    "negative maxAge matches nothing",
			filters: []algorithm.FilterConfig{{Type: algorithm.FilterAge, Mode: algorithm.ModeInclude, MaxAge: algorithm.Int64(-1)}},
			want:    []string{},
		},
		{
			name:    "negative maxAge exclude keeps everything",
			filters: []algorithm.FilterConfig{{Type: algorithm.FilterAge, Mode: algorithm.ModeExclude, MaxAge: algorithm.Int64(-1)}},
			want:    []string{"1", "2", "3", "4"},
		},
		{
			name:    "age exclude keeps old items",
			filters: []algorithm.FilterConfig{{Type: algorithm.FilterAge, Mode: algorithm.ModeExclude, MaxAge: algorithm.Int64(3600)}},
			want:    []string{"2", "4"},
		},
		{
			name:    "unknown type fails open",
			filters: []algorithm.FilterConfig{{Type: "regex", Mode: algorithm.ModeInclude}},
			want:    []string{"1", "2", "3", "4"},
		},
		{
			name: "AND semantics",
			filters: []algorithm.FilterConfig{
				{Type: algorithm.FilterSource, Mode: algorithm.ModeInclude, Values: []string{"hn", "rss"}},
				{Type: algorithm.FilterAge, Mode: algorithm.ModeInclude, MaxAge: algorithm.Int64(86400)},
				{Type: algorithm.FilterContentType, Mode: algorithm.ModeExclude, Values: []string{"video"}},
			},
			want: []string{"1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(items, tt.filters, now))
			if !equal(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

// 输出中的每个 item 必须满足全部规则，被丢弃的至少违反一条。
func TestApplyANDProperty(t *testing.T) {
	var items []*core.ContentItem
	sources := []string{"a", "b", "c"}
	types := core.ContentTypes()
	for i := 0; i < 30; i++ {
		items = append(items, item(
			string(rune('A'+i)),
			sources[i%len(sources)],
			types[i%len(types)],
			time.Duration(i)*10*time.Minute,
			nil,
		))
	}
	filters := []algorithm.FilterConfig{
		{Type: algorithm.FilterSource, Mode: algorithm.ModeExclude, Values: []string{"c"}},
		{Type: algorithm.FilterContentType, Mode: algorithm.ModeInclude, Values: []string{"article", "image", "event"}},
		{Type: algorithm.FilterAge, Mode: algorithm.ModeInclude, MaxAge: algorithm.Int64(3 * 3600)},
	}
	rules := Rules(filters)
	rctx := &core.RankContext{Now: now}

	kept := make(map[string]bool)
	for _, it := range Apply(items, filters, now) {
		kept[it.ID] = true
	}
	for _, it := range items {
		all := true
		for _, r := range rules {
			all = all && r.Keep(rctx, it)
		}
		if all != kept[it.ID] {
			t.Errorf("item %s: satisfies all = %v, kept = %v", it.ID, all, kept[it.ID])
		}
	}
}

func TestNodeDoesNotMutateInput(t *testing.T) {
	in := core.WrapAll([]*core.ContentItem{
		item("1", "hn", core.ContentArticle, 0, nil),
		item("2", "rss", core.ContentArticle, 0, nil),
	})
	n := NewNode([]algorithm.FilterConfig{{Type: algorithm.FilterSource, Mode: algorithm.ModeExclude, Values: []string{"hn"}}})

	out, err := n.Process(context.Background(), &core.RankContext{Now: now}, in)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(out) != 1 || out[0].Content.ID != "2" {
		t.Errorf("Process() = %v", core.Contents(out))
	}
	if len(in) != 2 || in[0].Content.ID != "1" || in[1].Content.ID != "2" {
		t.Errorf("input mutated: %v", core.Contents(in))
	}
}
