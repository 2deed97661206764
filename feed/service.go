// Package feed 组合内容仓库、算法仓库与排序引擎：生成 feed，以及从内容源抓取入库。
package feed

import (
	"context"
	"fmt"

	"github.com/rushteam/feedkit/algorithm"
	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/engine"
	"github.com/rushteam/feedkit/repository"
)

// DefaultContentWindow 是生成 feed 时加载的最新内容条数。
const DefaultContentWindow = 1000

// AlgorithmGetter 按 ID 读取算法，由 repository.Algorithms 实现。
type AlgorithmGetter interface {
	Get(ctx context.Context, id string) (*repository.AlgorithmRecord, error)
}

// Service 生成 feed。
type Service struct {
	content    core.ContentStore
	algorithms AlgorithmGetter
	engine     *engine.Engine

	// ContentWindow 是加载的最新内容条数，<= 0 时使用 DefaultContentWindow
	ContentWindow int
}

func NewService(content core.ContentStore, algorithms AlgorithmGetter, eng *engine.Engine) *Service {
	if eng == nil {
		eng = engine.New()
	}
	return &Service{
		content:       content,
		algorithms:    algorithms,
		engine:        eng,
		ContentWindow: DefaultContentWindow,
	}
}

// Generate 使用已保存的算法生成 feed。算法不存在时返回 NOT_FOUND 领域错误。
func (s *Service) Generate(ctx context.Context, algorithmID string) (*engine.Result, error) {
	if s.algorithms == nil {
		return nil, core.NewDomainError(core.ModuleFeed, core.ErrorCodeNotSupported, "no algorithm repository configured")
	}
	rec, err := s.algorithms.Get(ctx, algorithmID)
	if err != nil {
		return nil, fmt.Errorf("load algorithm: %w", err)
	}
	return s.run(ctx, &core.RankContext{AlgorithmID: algorithmID}, rec.Config)
}

// GenerateCustom 校验并执行临时算法配置。
func (s *Service) GenerateCustom(ctx context.Context, cfg *algorithm.Config) (*engine.Result, error) {
	if err := algorithm.Validate(cfg); err != nil {
		return nil, err
	}
	return s.run(ctx, &core.RankContext{}, cfg)
}

// GenerateYAML 解析、校验并执行 YAML 形式的算法配置。
func (s *Service) GenerateYAML(ctx context.Context, doc []byte) (*engine.Result, error) {
	cfg, err := algorithm.Parse(doc)
	if err != nil {
		return nil, err
	}
	return s.GenerateCustom(ctx, cfg)
}

func (s *Service) run(ctx context.Context, rctx *core.RankContext, cfg *algorithm.Config) (*engine.Result, error) {
	window := s.ContentWindow
	if window <= 0 {
		window = DefaultContentWindow
	}
	items, err := s.content.All(ctx, window, 0)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	return s.engine.Run(ctx, rctx, items, cfg)
}
