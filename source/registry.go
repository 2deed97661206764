package source

import (
	"sort"
	"sync"
)

// Registry 是显式传递的 connector 注册表（无包级全局状态）。
//
// 生命周期：创建内容源时 Register，更新时以同 ID 再次 Register 替换，删除时 Deregister。
type Registry struct {
	mu         sync.RWMutex
	connectors map[string]Connector
}

func NewRegistry() *Registry {
	return &Registry{connectors: make(map[string]Connector)}
}

// Register 注册 connector；同 ID 的旧实例被替换。
func (r *Registry) Register(c Connector) {
	if c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connectors[c.ID()] = c
}

// Deregister 移除 connector，返回是否存在。
func (r *Registry) Deregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.connectors[id]
	delete(r.connectors, id)
	return ok
}

func (r *Registry) Get(id string) (Connector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.connectors[id]
	return c, ok
}

// All 返回全部 connector，按 ID 排序。
func (r *Registry) All() []Connector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Connector, 0, len(r.connectors))
	for _, c := range r.connectors {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Enabled 返回已启用的 connector，按 ID 排序。
func (r *Registry) Enabled() []Connector {
	all := r.All()
	out := all[:0]
	for _, c := range all {
		if c.Enabled() {
			out = append(out, c)
		}
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connectors)
}
