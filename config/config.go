// Package config 加载 feedkit 的运行配置。
// 使用 koanf 读取可选的 YAML 文件，环境变量（FEEDKIT_*）优先于文件。
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/feedkit/notify"
)

// DefaultPath 返回默认配置文件路径（$XDG_CONFIG_HOME/feedkit/config.yaml）。
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "feedkit", "config.yaml")
}

// ResolvePath 返回实际使用的配置文件：显式路径优先，其次是存在的默认路径，否则为空。
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultPath()); err == nil {
		return DefaultPath()
	}
	return ""
}

// Store backends.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Default values.
const (
	DefaultStore            = StoreMemory
	DefaultRedisAddr        = "localhost:6379"
	DefaultRedisPrefix      = "feedkit:"
	DefaultDatabaseMaxConns = 10
	DefaultFetchConcurrency = 8
	DefaultFetchTimeout     = 30 * time.Second
	DefaultContentWindow    = 1000
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

// Configuration validation errors.
var (
	ErrInvalidStore        = errors.New("store must be one of memory, redis, postgres")
	ErrMissingRedisAddr    = errors.New("FEEDKIT_REDIS_ADDR is required for the redis store")
	ErrMissingDatabaseURL  = errors.New("FEEDKIT_DATABASE_URL is required for the postgres store")
	ErrInvalidLogLevel     = errors.New("log_level must be one of debug, info, warn, error")
	ErrInvalidLogFormat    = errors.New("log_format must be text or json")
	ErrInvalidSource       = errors.New("source requires an id and a type")
	ErrDuplicateSource     = errors.New("duplicate source id")
	ErrInvalidFetchSetting = errors.New("fetch_concurrency and fetch_timeout must not be negative")
	ErrInvalidNotifyRule   = errors.New("notification rule requires a when expression")
	ErrInvalidRedisDB      = errors.New("redis_db must not be negative")
)

// SourceConfig 声明一个内容源。Config 原样传给对应类型的 connector。
type SourceConfig struct {
	ID     string         `koanf:"id"`
	Name   string         `koanf:"name"`
	Type   string         `koanf:"type"`
	Config map[string]any `koanf:"config"`
}

// Config 是 feedkit 的全部运行配置。
type Config struct {
	// Storage
	Store            string `koanf:"store"`
	RedisAddr        string `koanf:"redis_addr"`
	RedisPassword    string `koanf:"redis_password"`
	RedisDB          int    `koanf:"redis_db"`
	RedisPrefix      string `koanf:"redis_prefix"`
	DatabaseURL      string `koanf:"database_url"`
	DatabaseMaxConns int    `koanf:"database_max_conns"`

	// Ingestion
	FetchConcurrency int            `koanf:"fetch_concurrency"`
	FetchTimeout     time.Duration  `koanf:"fetch_timeout"`
	UserAgent        string         `koanf:"user_agent"`
	Sources          []SourceConfig `koanf:"sources"`

	// Feed generation
	ContentWindow int `koanf:"content_window"`

	// Notifications
	NotificationRules []notify.Rule `koanf:"notification_rules"`

	// Observability
	LogLevel       string `koanf:"log_level"`
	LogFormat      string `koanf:"log_format"`
	MetricsEnabled bool   `koanf:"metrics_enabled"`
	MetricsFile    string `koanf:"metrics_file"` // Prometheus textfile 输出路径
}

// Default 返回全部取默认值的配置。
func Default() *Config {
	return &Config{
		Store:            DefaultStore,
		RedisAddr:        DefaultRedisAddr,
		RedisPrefix:      DefaultRedisPrefix,
		DatabaseMaxConns: DefaultDatabaseMaxConns,
		FetchConcurrency: DefaultFetchConcurrency,
		FetchTimeout:     DefaultFetchTimeout,
		ContentWindow:    DefaultContentWindow,
		LogLevel:         DefaultLogLevel,
		LogFormat:        DefaultLogFormat,
	}
}

// Load reads configuration from an optional YAML file and environment variables.
// Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
// If a config file path is provided and the file cannot be loaded, an error is returned.
func Load(configFilePath string) (*Config, []error) {
	cfg := Default()

	if configFilePath != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
		if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
			return nil, []error{fmt.Errorf("failed to decode config file %s: %w", configFilePath, err)}
		}
	}

	loadErrs := applyEnv(cfg)
	errs := cfg.Validate()
	return cfg, append(loadErrs, errs...)
}

// applyEnv 用 FEEDKIT_* 环境变量覆盖配置，返回无法解析的变量错误。
func applyEnv(cfg *Config) []error {
	var errs []error

	setString := func(key string, dst *string) {
		if val := os.Getenv(key); val != "" {
			*dst = val
		}
	}
	setInt := func(key string, dst *int) {
		if val := os.Getenv(key); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s must be a valid integer: %w", key, err))
				return
			}
			*dst = i
		}
	}

	setString("FEEDKIT_STORE", &cfg.Store)
	setString("FEEDKIT_REDIS_ADDR", &cfg.RedisAddr)
	setString("FEEDKIT_REDIS_PASSWORD", &cfg.RedisPassword)
	setInt("FEEDKIT_REDIS_DB", &cfg.RedisDB)
	setString("FEEDKIT_REDIS_PREFIX", &cfg.RedisPrefix)
	setString("FEEDKIT_DATABASE_URL", &cfg.DatabaseURL)
	setInt("FEEDKIT_DATABASE_MAX_CONNS", &cfg.DatabaseMaxConns)
	setInt("FEEDKIT_FETCH_CONCURRENCY", &cfg.FetchConcurrency)
	setString("FEEDKIT_USER_AGENT", &cfg.UserAgent)
	setInt("FEEDKIT_CONTENT_WINDOW", &cfg.ContentWindow)
	setString("FEEDKIT_LOG_LEVEL", &cfg.LogLevel)
	setString("FEEDKIT_LOG_FORMAT", &cfg.LogFormat)
	setString("FEEDKIT_METRICS_FILE", &cfg.MetricsFile)

	if val := os.Getenv("FEEDKIT_FETCH_TIMEOUT"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			errs = append(errs, fmt.Errorf("FEEDKIT_FETCH_TIMEOUT must be a valid duration: %w", err))
		} else {
			cfg.FetchTimeout = d
		}
	}
	if val := os.Getenv("FEEDKIT_METRICS_ENABLED"); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes", "on":
			cfg.MetricsEnabled = true
		case "false", "0", "no", "off":
			cfg.MetricsEnabled = false
		}
	}
	return errs
}

// Validate checks that the configuration is consistent.
// Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	switch c.Store {
	case StoreMemory:
	case StoreRedis:
		if c.RedisAddr == "" {
			errs = append(errs, ErrMissingRedisAddr)
		}
		if c.RedisDB < 0 {
			errs = append(errs, ErrInvalidRedisDB)
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, ErrMissingDatabaseURL)
		}
	default:
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidStore, c.Store))
	}

	if c.FetchConcurrency < 0 || c.FetchTimeout < 0 {
		errs = append(errs, ErrInvalidFetchSetting)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.LogLevel)) {
		errs = append(errs, ErrInvalidLogLevel)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, ErrInvalidLogFormat)
	}

	seen := make(map[string]struct{}, len(c.Sources))
	for i, s := range c.Sources {
		if s.ID == "" || s.Type == "" {
			errs = append(errs, fmt.Errorf("sources[%d]: %w", i, ErrInvalidSource))
			continue
		}
		if _, ok := seen[s.ID]; ok {
			errs = append(errs, fmt.Errorf("sources[%d]: %w %q", i, ErrDuplicateSource, s.ID))
		}
		seen[s.ID] = struct{}{}
	}
	for i, r := range c.NotificationRules {
		if strings.TrimSpace(r.When) == "" {
			errs = append(errs, fmt.Errorf("notification_rules[%d]: %w", i, ErrInvalidNotifyRule))
		}
	}
	return errs
}

// LogSummary returns a summary of the configuration suitable for logging.
// Secrets are masked.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"store":              c.Store,
		"redis_addr":         c.RedisAddr,
		"redis_password":     maskSecret(c.RedisPassword),
		"database_url":       maskDatabaseURL(c.DatabaseURL),
		"fetch_concurrency":  strconv.Itoa(c.FetchConcurrency),
		"fetch_timeout":      c.FetchTimeout.String(),
		"content_window":     strconv.Itoa(c.ContentWindow),
		"sources":            strconv.Itoa(len(c.Sources)),
		"notification_rules": strconv.Itoa(len(c.NotificationRules)),
		"log_level":          c.LogLevel,
		"metrics_enabled":    strconv.FormatBool(c.MetricsEnabled),
	}
}

func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) < 8 {
		return "****"
	}
	return s[:4] + "****"
}

// maskDatabaseURL masks the password in a database URL.
func maskDatabaseURL(s string) string {
	if s == "" {
		return "<not set>"
	}
	schemeEnd := strings.Index(s, "://")
	if schemeEnd == -1 {
		return maskSecret(s)
	}
	rest := s[schemeEnd+3:]
	atIndex := strings.Index(rest, "@")
	if atIndex == -1 {
		return s
	}
	colonIndex := strings.Index(rest[:atIndex], ":")
	if colonIndex == -1 {
		return s
	}
	return s[:schemeEnd+3] + rest[:colonIndex] + ":****" + rest[atIndex:]
}
