// Package algorithm 定义算法配置（Algorithm）的数据模型、校验、YAML 编解码与内置市场预设。
//
// 算法是纯数据：filters + boosters + diversity + sort + limit，
// 由 engine 包解释执行。配置不包含任何可执行代码。
package algorithm

import "github.com/rushteam/feedkit/pkg/conv"

// FilterType 是过滤器类型。
type FilterType string

const (
	FilterSource      FilterType = "source"
	FilterKeyword     FilterType = "keyword"
	FilterContentType FilterType = "contentType"
	FilterAge         FilterType = "age"
)

// FilterMode 决定匹配结果是否取反。
type FilterMode string

const (
	ModeInclude FilterMode = "include"
	ModeExclude FilterMode = "exclude"
)

// BoosterType 是打分器类型。
type BoosterType string

const (
	BoosterRecency        BoosterType = "recency"
	BoosterEngagement     BoosterType = "engagement"
	BoosterSourceAffinity BoosterType = "sourceAffinity"
)

// SortType 是排序方式。
type SortType string

const (
	SortChronological SortType = "chronological"
	SortScore         SortType = "score"
	SortRandom        SortType = "random"
)

// SortDirection 是排序方向。
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// ParamPreferredSources 是 sourceAffinity booster 读取的 params key。
const ParamPreferredSources = "preferredSources"

// FilterConfig 描述一个 include/exclude 过滤器。
type FilterConfig struct {
	Type   FilterType `yaml:"type" json:"type"`
	Mode   FilterMode `yaml:"mode" json:"mode"`
	Values []string   `yaml:"values,omitempty" json:"values,omitempty"` // 语义随 Type 变化
	// MaxAge 仅对 age 过滤器有效（秒）；为空或 0 时该过滤器不排除任何内容
	MaxAge *int64 `yaml:"maxAge,omitempty" json:"maxAge,omitempty"`
}

// BoosterConfig 描述一个乘性打分器。
type BoosterConfig struct {
	Type   BoosterType    `yaml:"type" json:"type"`
	Weight float64        `yaml:"weight" json:"weight"`
	Params map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// PreferredSources 返回 params.preferredSources；缺失时返回 nil。
func (b BoosterConfig) PreferredSources() []string {
	return conv.SliceAnyToString(b.Params[ParamPreferredSources])
}

// DiversityConfig 描述多样性约束，0/false 表示不启用对应约束。
type DiversityConfig struct {
	MaxPerSource    int  `yaml:"maxPerSource,omitempty" json:"maxPerSource,omitempty"`
	MixContentTypes bool `yaml:"mixContentTypes,omitempty" json:"mixContentTypes,omitempty"`
	// MinDifferentSources 目前只做检查，不做补齐
	MinDifferentSources int `yaml:"minDifferentSources,omitempty" json:"minDifferentSources,omitempty"`
}

// SortConfig 描述最终排序。
type SortConfig struct {
	Type      SortType      `yaml:"type" json:"type"`
	Direction SortDirection `yaml:"direction" json:"direction"`
}

// LimitConfig 描述分页。
type LimitConfig struct {
	MaxItems int `yaml:"maxItems" json:"maxItems"`
	Offset   int `yaml:"offset,omitempty" json:"offset,omitempty"`
}

// Config 是完整的算法配置，也就是用户以 YAML 编写的“程序”。
//
// 所有阶段均可省略：空配置等价于恒等变换（按分数降序、不分页）。
type Config struct {
	Version     string           `yaml:"version" json:"version"` // MAJOR.MINOR.PATCH
	Name        string           `yaml:"name" json:"name"`
	Description string           `yaml:"description" json:"description"`
	Author      string           `yaml:"author,omitempty" json:"author,omitempty"`
	Filters     []FilterConfig   `yaml:"filters,omitempty" json:"filters,omitempty"`
	Boosters    []BoosterConfig  `yaml:"boosters,omitempty" json:"boosters,omitempty"`
	Diversity   *DiversityConfig `yaml:"diversity,omitempty" json:"diversity,omitempty"`
	Sort        *SortConfig      `yaml:"sort,omitempty" json:"sort,omitempty"`
	Limit       *LimitConfig     `yaml:"limit,omitempty" json:"limit,omitempty"`
	Tags        []string         `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Validate 是 algorithm.Validate 的便捷方法。
func (c *Config) Validate() error {
	return Validate(c)
}

// normalize 把空切片/空 map 统一为 nil，并规范化 booster params，使 Parse(Serialize(c)) 与 c 深度相等。
// 只写入确实需要改变的字段，已规范的配置不会被修改。
func (c *Config) normalize() {
	if c.Filters != nil && len(c.Filters) == 0 {
		c.Filters = nil
	}
	for i := range c.Filters {
		if c.Filters[i].Values != nil && len(c.Filters[i].Values) == 0 {
			c.Filters[i].Values = nil
		}
	}
	if c.Boosters != nil && len(c.Boosters) == 0 {
		c.Boosters = nil
	}
	for i := range c.Boosters {
		if c.Boosters[i].Params != nil && len(c.Boosters[i].Params) == 0 {
			c.Boosters[i].Params = nil
		}
		canonicalParams(c.Boosters[i].Params)
	}
	if c.Tags != nil && len(c.Tags) == 0 {
		c.Tags = nil
	}
}

// canonicalParams 把字符串列表统一为 []string（YAML/JSON 解码得到的是 []any），嵌套 map 递归处理。
func canonicalParams(params map[string]any) {
	for k, v := range params {
		switch t := v.(type) {
		case []any:
			if ss, ok := stringList(t); ok {
				params[k] = ss
			}
		case map[string]any:
			canonicalParams(t)
		}
	}
}

func stringList(vs []any) ([]string, bool) {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// Int64 返回 v 的指针，便于构造 FilterConfig.MaxAge。
func Int64(v int64) *int64 {
	return &v
}
