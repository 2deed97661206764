// Package notify 根据内容生成通知：webhook 显式触发，或命中 CEL 通知规则。
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pkg/dsl"
	"github.com/rushteam/feedkit/repository"
)

// Rule 是一条通知规则。When 为 CEL 表达式（变量见 dsl.Expr）。
type Rule struct {
	Name     string        `yaml:"name" json:"name" koanf:"name"`
	When     string        `yaml:"when" json:"when" koanf:"when"`
	Priority core.Priority `yaml:"priority,omitempty" json:"priority,omitempty" koanf:"priority"`
	// Title 为空时使用内容标题
	Title string `yaml:"title,omitempty" json:"title,omitempty" koanf:"title"`
}

// Creator 持久化通知，由 repository.Notifications 实现。
type Creator interface {
	Create(ctx context.Context, n repository.NewNotification) (string, error)
}

type compiledRule struct {
	Rule
	expr *dsl.Expr
}

// Notifier 对内容逐条判断是否需要通知，每条内容最多产生一条通知。
type Notifier struct {
	creator Creator
	rules   []compiledRule
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Notifier)

func WithLogger(l *slog.Logger) Option {
	return func(n *Notifier) { n.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(n *Notifier) { n.now = now }
}

// New 编译全部规则。任一规则不合法时返回 INVALID_INPUT 领域错误。
func New(creator Creator, rules []Rule, opts ...Option) (*Notifier, error) {
	n := &Notifier{
		creator: creator,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}

	n.rules = make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		if r.Name == "" {
			r.Name = fmt.Sprintf("rule-%d", i+1)
		}
		if r.Priority == "" {
			r.Priority = core.PriorityMedium
		}
		if !r.Priority.Valid() {
			return nil, core.NewDomainError(core.ModuleNotification, core.ErrorCodeInvalidInput,
				fmt.Sprintf("rule %s: invalid priority %q", r.Name, r.Priority))
		}
		expr, err := dsl.Compile(r.When)
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleNotification, core.ErrorCodeInvalidInput, err,
				"rule %s: invalid expression", r.Name)
		}
		n.rules = append(n.rules, compiledRule{Rule: r, expr: expr})
	}
	return n, nil
}

// Rules 返回规范化后的规则（已补齐默认名称与优先级）。
func (n *Notifier) Rules() []Rule {
	out := make([]Rule, len(n.rules))
	for i, r := range n.rules {
		out[i] = r.Rule
	}
	return out
}

// Match 判断 item 是否需要通知。webhook 的 triggerNotification 优先，其次为第一条命中的规则。
// 规则求值出错视为未命中。
func (n *Notifier) Match(ctx context.Context, item *core.ContentItem, now time.Time) (repository.NewNotification, bool) {
	if item.Meta.Bool(core.MetaTriggerNotification) {
		priority := core.Priority(item.Meta.String("priority"))
		if !priority.Valid() {
			priority = core.PriorityMedium
		}
		return n.notification(item, item.Title, priority, map[string]any{"itemId": item.ID}), true
	}

	for _, r := range n.rules {
		ok, err := r.expr.Match(item, now)
		if err != nil {
			n.logger.DebugContext(ctx, "notification rule skipped",
				"rule", r.Name,
				"item", item.ID,
				"error", err,
			)
			continue
		}
		if !ok {
			continue
		}
		title := r.Title
		if title == "" {
			title = item.Title
		}
		return n.notification(item, title, r.Priority, map[string]any{"itemId": item.ID, "rule": r.Name}), true
	}
	return repository.NewNotification{}, false
}

func (n *Notifier) notification(item *core.ContentItem, title string, p core.Priority, meta map[string]any) repository.NewNotification {
	message := item.Meta.String("message")
	if message == "" {
		message = item.Meta.String("description")
	}
	if message == "" {
		message = item.Title
	}
	return repository.NewNotification{
		Title:    title,
		Message:  message,
		Priority: p,
		URL:      item.URL,
		Source:   item.Source,
		Meta:     meta,
	}
}

// Process 为需要通知的内容创建通知，返回创建条数。
func (n *Notifier) Process(ctx context.Context, items []*core.ContentItem) (int, error) {
	now := n.now()
	created := 0
	for _, item := range items {
		if item == nil {
			continue
		}
		nn, ok := n.Match(ctx, item, now)
		if !ok {
			continue
		}
		if _, err := n.creator.Create(ctx, nn); err != nil {
			return created, fmt.Errorf("create notification for %s: %w", item.ID, err)
		}
		created++
	}
	return created, nil
}
