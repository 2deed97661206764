package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rushteam/feedkit/core"
)

var envKeys = []string{
	"FEEDKIT_STORE", "FEEDKIT_REDIS_ADDR", "FEEDKIT_REDIS_PASSWORD", "FEEDKIT_REDIS_DB",
	"FEEDKIT_REDIS_PREFIX", "FEEDKIT_DATABASE_URL", "FEEDKIT_DATABASE_MAX_CONNS",
	"FEEDKIT_FETCH_CONCURRENCY", "FEEDKIT_FETCH_TIMEOUT", "FEEDKIT_USER_AGENT",
	"FEEDKIT_CONTENT_WINDOW", "FEEDKIT_LOG_LEVEL", "FEEDKIT_LOG_FORMAT",
	"FEEDKIT_METRICS_ENABLED", "FEEDKIT_METRICS_FILE",
}

// clearEnv 把 FEEDKIT_* 置空（空值视为未设置），测试结束后自动恢复。
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feedkit.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const fileConfig = `
store: redis
redis_addr: redis.internal:6379
fetch_timeout: 10s
fetch_concurrency: 4
content_window: 500
log_format: json
metrics_enabled: true
sources:
  - id: hn
    name: Hacker News
    type: hackernews
    config:
      feed: best
      maxItems: 20
  - id: golang
    type: reddit
    config:
      subreddit: golang
notification_rules:
  - name: hot
    when: 'item.meta.score > 500'
    priority: high
`

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, errs := Load("")
	if len(errs) != 0 {
		t.Fatalf("Load() errs = %v", errs)
	}
	if cfg.Store != StoreMemory || cfg.FetchTimeout != DefaultFetchTimeout || cfg.ContentWindow != DefaultContentWindow {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" || cfg.MetricsEnabled {
		t.Errorf("observability defaults = %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	cfg, errs := Load(writeFile(t, fileConfig))
	if len(errs) != 0 {
		t.Fatalf("Load() errs = %v", errs)
	}

	if cfg.Store != StoreRedis || cfg.RedisAddr != "redis.internal:6379" || cfg.RedisPrefix != DefaultRedisPrefix {
		t.Errorf("store = %+v", cfg)
	}
	if cfg.FetchTimeout != 10*time.Second || cfg.FetchConcurrency != 4 || cfg.ContentWindow != 500 {
		t.Errorf("fetch = %v/%d/%d", cfg.FetchTimeout, cfg.FetchConcurrency, cfg.ContentWindow)
	}
	if cfg.LogFormat != "json" || cfg.LogLevel != DefaultLogLevel || !cfg.MetricsEnabled {
		t.Errorf("observability = %+v", cfg)
	}

	if len(cfg.Sources) != 2 {
		t.Fatalf("sources = %+v", cfg.Sources)
	}
	hn := cfg.Sources[0]
	if hn.ID != "hn" || hn.Type != "hackernews" || hn.Config["feed"] != "best" {
		t.Errorf("hn = %+v", hn)
	}
	if cfg.Sources[1].Name != "" || cfg.Sources[1].Config["subreddit"] != "golang" {
		t.Errorf("golang = %+v", cfg.Sources[1])
	}

	if len(cfg.NotificationRules) != 1 {
		t.Fatalf("rules = %+v", cfg.NotificationRules)
	}
	r := cfg.NotificationRules[0]
	if r.Name != "hot" || r.When != "item.meta.score > 500" || r.Priority != core.PriorityHigh {
		t.Errorf("rule = %+v", r)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("FEEDKIT_STORE", "postgres")
	t.Setenv("FEEDKIT_DATABASE_URL", "postgres://feed:secret@db:5432/feed")
	t.Setenv("FEEDKIT_FETCH_TIMEOUT", "2s")
	t.Setenv("FEEDKIT_CONTENT_WINDOW", "50")
	t.Setenv("FEEDKIT_METRICS_ENABLED", "off")

	cfg, errs := Load(writeFile(t, fileConfig))
	if len(errs) != 0 {
		t.Fatalf("Load() errs = %v", errs)
	}
	if cfg.Store != StorePostgres || cfg.FetchTimeout != 2*time.Second || cfg.ContentWindow != 50 || cfg.MetricsEnabled {
		t.Errorf("cfg = %+v", cfg)
	}
	if got := cfg.LogSummary()["database_url"]; got != "postgres://feed:****@db:5432/feed" {
		t.Errorf("masked database_url = %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		file    string
		wantErr error
	}{
		{
			name:    "unknown store",
			env:     map[string]string{"FEEDKIT_STORE": "sqlite"},
			wantErr: ErrInvalidStore,
		},
		{
			name:    "postgres without url",
			env:     map[string]string{"FEEDKIT_STORE": "postgres"},
			wantErr: ErrMissingDatabaseURL,
		},
		{
			name:    "bad log level",
			env:     map[string]string{"FEEDKIT_LOG_LEVEL": "trace"},
			wantErr: ErrInvalidLogLevel,
		},
		{
			name:    "duplicate source",
			file:    "sources:\n  - {id: a, type: rss}\n  - {id: a, type: rss}\n",
			wantErr: ErrDuplicateSource,
		},
		{
			name:    "source without type",
			file:    "sources:\n  - {id: a}\n",
			wantErr: ErrInvalidSource,
		},
		{
			name:    "rule without expression",
			file:    "notification_rules:\n  - {name: x}\n",
			wantErr: ErrInvalidNotifyRule,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file)
			}
			_, errs := Load(path)
			found := false
			for _, err := range errs {
				if errors.Is(err, tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("Load() errs = %v, want %v", errs, tt.wantErr)
			}
		})
	}
}

func TestLoadInvalidEnvValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("FEEDKIT_FETCH_CONCURRENCY", "many")
	t.Setenv("FEEDKIT_FETCH_TIMEOUT", "soon")
	_, errs := Load("")
	if len(errs) != 2 {
		t.Errorf("Load() errs = %v, want 2", errs)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	cfg, errs := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if cfg != nil || len(errs) != 1 || !strings.Contains(errs[0].Error(), "failed to load config file") {
		t.Errorf("Load() = %v, %v", cfg, errs)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"
	logger := cfg.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "source", "hn")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"source":"hn"`) {
		t.Errorf("log output = %s", out)
	}
}

func TestResolvePath(t *testing.T) {
	if !strings.HasSuffix(DefaultPath(), filepath.Join("feedkit", "config.yaml")) {
		t.Errorf("DefaultPath() = %q", DefaultPath())
	}
	if got := ResolvePath("custom.yaml"); got != "custom.yaml" {
		t.Errorf("ResolvePath(custom.yaml) = %q", got)
	}
	got := ResolvePath("")
	if got != "" && got != DefaultPath() {
		t.Errorf("ResolvePath(\"\") = %q", got)
	}
}
