package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pkg/conv"
)

// SourceRecord 是持久化的内容源定义。
type SourceRecord struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Config      map[string]any `json:"config"`
	Enabled     bool           `json:"enabled"`
	LastFetchAt *time.Time     `json:"lastFetchAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Sources 是内容源仓库。Enabled 由 config.enabled 决定（缺省为 true）。
type Sources struct {
	kv   core.KeyValueStore
	opts options
}

func NewSources(kv core.KeyValueStore, opts ...Option) *Sources {
	return &Sources{kv: kv, opts: newOptions(opts)}
}

// Create 保存新的内容源；ID 已存在时返回 INVALID_INPUT。
func (s *Sources) Create(ctx context.Context, id, name, typ string, cfg map[string]any) (*SourceRecord, error) {
	if id == "" || typ == "" {
		return nil, core.NewDomainError(core.ModuleSource, core.ErrorCodeInvalidInput, "source id and type are required")
	}
	_, ok, err := hget[SourceRecord](ctx, s.kv, keySources, id)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, core.NewDomainError(core.ModuleSource, core.ErrorCodeInvalidInput, fmt.Sprintf("source %s already exists", id))
	}
	now := s.opts.now().UTC()
	rec := &SourceRecord{
		ID:        id,
		Name:      name,
		Type:      typ,
		Config:    cfg,
		Enabled:   conv.ConfigGet(cfg, "enabled", true),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if rec.Config == nil {
		rec.Config = map[string]any{}
	}
	if err := hset(ctx, s.kv, keySources, id, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// All 返回全部内容源，按 ID 排序。
func (s *Sources) All(ctx context.Context) ([]*SourceRecord, error) {
	recs, err := hvalues[SourceRecord](ctx, s.kv, keySources)
	if err != nil {
		return nil, err
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	return recs, nil
}

func (s *Sources) Get(ctx context.Context, id string) (*SourceRecord, error) {
	rec, ok, err := hget[SourceRecord](ctx, s.kv, keySources, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound(core.ModuleSource, "source %s not found", id)
	}
	return rec, nil
}

// Update 替换名称与配置，类型不可变。
func (s *Sources) Update(ctx context.Context, id, name string, cfg map[string]any) (*SourceRecord, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = map[string]any{}
	}
	rec.Name = name
	rec.Config = cfg
	rec.Enabled = conv.ConfigGet(cfg, "enabled", true)
	rec.UpdatedAt = s.opts.now().UTC()
	if err := hset(ctx, s.kv, keySources, id, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Sources) Delete(ctx context.Context, id string) error {
	return s.kv.HDel(ctx, keySources, id)
}

// TouchFetched 记录最近一次抓取时间。
func (s *Sources) TouchFetched(ctx context.Context, id string, t time.Time) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	t = t.UTC()
	rec.LastFetchAt = &t
	return hset(ctx, s.kv, keySources, id, rec)
}
