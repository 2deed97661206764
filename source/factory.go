package source

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/feedkit/core"
)

// Builder 根据 id、名称与配置构建 Connector。
type Builder func(id, name string, cfg map[string]any) (Connector, error)

// Factory 维护 connector 类型到 Builder 的映射。并发安全。
type Factory struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

func NewFactory() *Factory {
	return &Factory{builders: make(map[string]Builder)}
}

// DefaultFactory 返回注册了 rss、hackernews、reddit、webhook 的工厂，opts 传给每个 connector。
func DefaultFactory(opts ...Option) *Factory {
	f := NewFactory()
	f.Register(TypeRSS, func(id, name string, cfg map[string]any) (Connector, error) {
		return NewRSS(id, name, cfg, opts...)
	})
	f.Register(TypeHackerNews, func(id, name string, cfg map[string]any) (Connector, error) {
		return NewHackerNews(id, name, cfg, opts...)
	})
	f.Register(TypeReddit, func(id, name string, cfg map[string]any) (Connector, error) {
		return NewReddit(id, name, cfg, opts...)
	})
	f.Register(TypeWebhook, func(id, name string, cfg map[string]any) (Connector, error) {
		return NewWebhook(id, name, cfg, opts...)
	})
	return f
}

// Register 注册（或替换）一种 connector 类型。
func (f *Factory) Register(typeName string, b Builder) {
	if typeName == "" || b == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[typeName] = b
}

// Types 返回已注册的类型（排序），用于错误提示。
func (f *Factory) Types() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	types := make([]string, 0, len(f.builders))
	for t := range f.builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Build 构建并校验 connector。未知类型返回 NOT_SUPPORTED 领域错误。
func (f *Factory) Build(id, name, typeName string, cfg map[string]any) (Connector, error) {
	if id == "" {
		return nil, invalid("source: id is required")
	}
	f.mu.RLock()
	b, ok := f.builders[typeName]
	f.mu.RUnlock()
	if !ok {
		return nil, core.NewDomainError(core.ModuleSource, core.ErrorCodeNotSupported,
			fmt.Sprintf("unknown connector type %q (supported: %v)", typeName, f.Types()))
	}
	c, err := b(id, name, cfg)
	if err != nil {
		return nil, fmt.Errorf("build %s connector %s: %w", typeName, id, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
