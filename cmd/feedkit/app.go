package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rushteam/feedkit/config"
	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/engine"
	"github.com/rushteam/feedkit/feed"
	"github.com/rushteam/feedkit/notify"
	"github.com/rushteam/feedkit/repository"
	"github.com/rushteam/feedkit/source"
	"github.com/rushteam/feedkit/store"
	"github.com/rushteam/feedkit/store/postgres"
)

// app 持有一次命令执行所需的全部依赖。
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	content       core.ContentStore
	algorithms    *repository.Algorithms
	notifications *repository.Notifications
	sources       *repository.Sources

	engineMetrics *engine.Metrics
	sourceMetrics *source.Metrics
	registry      *prometheus.Registry

	closers []io.Closer
}

// openApp 加载配置并按 store 后端装配仓库。
//
//	memory   全部记录保存在进程内（不跨进程持久化）
//	redis    全部记录保存在 Redis
//	postgres 内容保存在 PostgreSQL，算法/通知/内容源记录保存在 Redis
func openApp(ctx context.Context, configPath string, logOut io.Writer) (*app, error) {
	cfg, errs := config.Load(config.ResolvePath(configPath))
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	a := &app{cfg: cfg, logger: cfg.NewLogger(logOut)}

	var kv core.KeyValueStore
	switch cfg.Store {
	case config.StoreMemory:
		mem := store.NewMemoryStore()
		a.closers = append(a.closers, mem)
		kv = mem
		a.logger.Debug("using in-memory store; data is not persisted between runs")
	case config.StoreRedis, config.StorePostgres:
		rs, err := store.NewRedisStore(ctx, store.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rs)
		kv = rs
	}

	a.content = repository.NewContent(kv)
	if cfg.Store == config.StorePostgres {
		pg, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, pg)
		if err := pg.Migrate(ctx); err != nil {
			a.Close()
			return nil, err
		}
		a.content = pg
	}
	a.algorithms = repository.NewAlgorithms(kv)
	a.notifications = repository.NewNotifications(kv)
	a.sources = repository.NewSources(kv)

	if cfg.MetricsEnabled {
		a.registry = prometheus.NewRegistry()
		a.engineMetrics = engine.NewMetrics()
		a.sourceMetrics = source.NewMetrics()
		for _, m := range []interface{ Register(prometheus.Registerer) error }{a.engineMetrics, a.sourceMetrics} {
			if err := m.Register(a.registry); err != nil {
				a.Close()
				return nil, fmt.Errorf("register metrics: %w", err)
			}
		}
	}

	a.logger.Debug("config loaded", "config", cfg.LogSummary())
	return a, nil
}

func (a *app) engine() *engine.Engine {
	opts := []engine.Option{engine.WithLogger(a.logger)}
	if a.engineMetrics != nil {
		opts = append(opts, engine.WithMetrics(a.engineMetrics))
	}
	return engine.New(opts...)
}

func (a *app) feedService() *feed.Service {
	svc := feed.NewService(a.content, a.algorithms, a.engine())
	svc.ContentWindow = a.cfg.ContentWindow
	return svc
}

// syncSources 把配置中的内容源写入仓库，并构建启用的 connector 注册表。
func (a *app) syncSources(ctx context.Context) (*source.Registry, error) {
	opts := []source.Option{source.WithLogger(a.logger)}
	if a.cfg.UserAgent != "" {
		opts = append(opts, source.WithUserAgent(a.cfg.UserAgent))
	}
	factory := source.DefaultFactory(opts...)
	reg := source.NewRegistry()

	for _, sc := range a.cfg.Sources {
		c, err := factory.Build(sc.ID, sc.Name, sc.Type, sc.Config)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", sc.ID, err)
		}
		if _, err := a.sources.Get(ctx, sc.ID); core.IsNotFound(err) {
			_, err = a.sources.Create(ctx, sc.ID, c.Name(), sc.Type, sc.Config)
			if err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		} else if _, err := a.sources.Update(ctx, sc.ID, c.Name(), sc.Config); err != nil {
			return nil, err
		}
		reg.Register(c)
	}
	return reg, nil
}

func (a *app) ingestor(reg *source.Registry) (*feed.Ingestor, error) {
	notifier, err := notify.New(a.notifications, a.cfg.NotificationRules, notify.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	return &feed.Ingestor{
		Registry: reg,
		Content:  a.content,
		Sources:  a.sources,
		Notifier: notifier,
		Fetch: source.FetchOptions{
			Timeout:       a.cfg.FetchTimeout,
			MaxConcurrent: a.cfg.FetchConcurrency,
			Metrics:       a.sourceMetrics,
			Logger:        a.logger,
		},
		Logger: a.logger,
	}, nil
}

// Close 写出指标文件并释放连接。
func (a *app) Close() {
	if a.registry != nil && a.cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(a.cfg.MetricsFile, a.registry); err != nil {
			a.logger.Warn("write metrics file failed", "path", a.cfg.MetricsFile, "error", err)
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}
