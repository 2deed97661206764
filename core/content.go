package core

import (
	"bytes"
	"encoding/json"
	"time"
)

// ContentType 是内容类型的封闭枚举。
type ContentType string

const (
	ContentArticle      ContentType = "article"
	ContentImage        ContentType = "image"
	ContentVideo        ContentType = "video"
	ContentNotification ContentType = "notification"
	ContentEvent        ContentType = "event"
)

// ContentTypes 返回全部合法的内容类型（按声明顺序）。
func ContentTypes() []ContentType {
	return []ContentType{ContentArticle, ContentImage, ContentVideo, ContentNotification, ContentEvent}
}

// Valid 判断是否为已知内容类型。
func (t ContentType) Valid() bool {
	switch t {
	case ContentArticle, ContentImage, ContentVideo, ContentNotification, ContentEvent:
		return true
	}
	return false
}

// ContentItem 是聚合链路中的统一内容信封（Universal Content Envelope）。
//
// 由接入层（source 包的各类 Connector）产出后即视为不可变：
// 排序引擎只读不写，Meta 也不例外。
type ContentItem struct {
	ID        string      `json:"id"`
	Source    string      `json:"source"` // 来源 connector ID
	URL       string      `json:"url"`
	Title     string      `json:"title"`
	Timestamp time.Time   `json:"timestamp"`
	Type      ContentType `json:"type"`
	Meta      Meta        `json:"meta"`
}

// SearchText 返回关键词匹配使用的文本：标题 + Meta 的 JSON 序列化。
func (c *ContentItem) SearchText() string {
	if c == nil {
		return ""
	}
	meta := "{}"
	if len(c.Meta) > 0 {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		// 关键词按原文匹配，& < > 不能被转义
		enc.SetEscapeHTML(false)
		if err := enc.Encode(c.Meta); err == nil {
			meta = string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
		}
	}
	return c.Title + " " + meta
}

// Age 返回相对 now 的内容年龄。
func (c *ContentItem) Age(now time.Time) time.Duration {
	return now.Sub(c.Timestamp)
}
