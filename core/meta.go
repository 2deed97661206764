package core

import "github.com/rushteam/feedkit/pkg/conv"

// Meta 的约定字段。各 connector 自由写入，booster/filter 只认这些名字。
const (
	// 互动类字段（engagement booster 使用）
	MetaScore    = "score"
	MetaUpvotes  = "upvotes"
	MetaLikes    = "likes"
	MetaComments = "comments"
	MetaShares   = "shares"

	MetaAuthor              = "author"
	MetaTriggerNotification = "triggerNotification"
)

// Meta 是内容的开放元数据。缺失的 key 统一按零值处理。
type Meta map[string]any

// Number 读取数值字段；缺失或非数值返回 0。
func (m Meta) Number(key string) float64 {
	if m == nil {
		return 0
	}
	f, _ := conv.ToFloat64(m[key])
	return f
}

// String 读取字符串字段；缺失或类型不符返回 ""。
func (m Meta) String(key string) string {
	if m == nil {
		return ""
	}
	s, _ := conv.ToString(m[key])
	return s
}

// Bool 读取布尔字段；缺失或类型不符返回 false。
func (m Meta) Bool(key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}

// Strings 读取字符串列表字段，兼容 []string 与 []any。
func (m Meta) Strings(key string) []string {
	if m == nil {
		return nil
	}
	switch v := m[key].(type) {
	case []string:
		return v
	default:
		return conv.SliceAnyToString(v)
	}
}
