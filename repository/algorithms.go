package repository

import (
	"context"
	"sort"
	"time"

	"github.com/rushteam/feedkit/algorithm"
	"github.com/rushteam/feedkit/core"
)

// AlgorithmRecord 是持久化的算法记录。
type AlgorithmRecord struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Tags        []string          `json:"tags"`
	Author      string            `json:"author,omitempty"`
	Config      *algorithm.Config `json:"config"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// Algorithms 是算法配置仓库。写入前总是先校验配置。
type Algorithms struct {
	kv   core.KeyValueStore
	opts options
}

func NewAlgorithms(kv core.KeyValueStore, opts ...Option) *Algorithms {
	return &Algorithms{kv: kv, opts: newOptions(opts)}
}

// Create 校验并保存算法，返回新 ID。author 为空时使用配置中的 author。
func (a *Algorithms) Create(ctx context.Context, cfg *algorithm.Config, author string) (string, error) {
	if err := algorithm.Validate(cfg); err != nil {
		return "", err
	}
	if author == "" {
		author = cfg.Author
	}
	now := a.opts.now().UTC()
	rec := &AlgorithmRecord{
		ID:        a.opts.newID(),
		Author:    author,
		CreatedAt: now,
	}
	rec.apply(cfg, now)
	if err := hset(ctx, a.kv, keyAlgorithms, rec.ID, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (r *AlgorithmRecord) apply(cfg *algorithm.Config, now time.Time) {
	r.Name = cfg.Name
	r.Description = cfg.Description
	r.Tags = cfg.Tags
	if r.Tags == nil {
		r.Tags = []string{}
	}
	r.Config = cfg
	r.UpdatedAt = now
}

// All 返回全部算法，按创建时间排序。
func (a *Algorithms) All(ctx context.Context) ([]*AlgorithmRecord, error) {
	recs, err := hvalues[AlgorithmRecord](ctx, a.kv, keyAlgorithms)
	if err != nil {
		return nil, err
	}
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.Before(recs[j].CreatedAt)
		}
		return recs[i].ID < recs[j].ID
	})
	return recs, nil
}

// Get 读取算法；不存在时返回 NOT_FOUND 领域错误。
func (a *Algorithms) Get(ctx context.Context, id string) (*AlgorithmRecord, error) {
	rec, ok, err := hget[AlgorithmRecord](ctx, a.kv, keyAlgorithms, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound(core.ModuleAlgorithm, "algorithm %s not found", id)
	}
	return rec, nil
}

// Update 校验并替换算法配置。
func (a *Algorithms) Update(ctx context.Context, id string, cfg *algorithm.Config) error {
	if err := algorithm.Validate(cfg); err != nil {
		return err
	}
	rec, err := a.Get(ctx, id)
	if err != nil {
		return err
	}
	if cfg.Author != "" {
		rec.Author = cfg.Author
	}
	rec.apply(cfg, a.opts.now().UTC())
	return hset(ctx, a.kv, keyAlgorithms, id, rec)
}

// Delete 删除算法，不存在时不报错。
func (a *Algorithms) Delete(ctx context.Context, id string) error {
	return a.kv.HDel(ctx, keyAlgorithms, id)
}
