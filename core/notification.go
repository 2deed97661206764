package core

import "time"

// Priority 是通知优先级。
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid 判断是否为已知优先级。
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Notification 是一条通知记录。
type Notification struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Read      bool           `json:"read"`
	Priority  Priority       `json:"priority"`
	URL       string         `json:"url,omitempty"`
	Source    string         `json:"source,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
}
