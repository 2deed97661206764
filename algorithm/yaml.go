package algorithm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/feedkit/core"
)

// ErrMalformed 是所有解析失败的领域错误，可用 core.IsInvalidInput 判断。
var ErrMalformed = core.NewDomainError(core.ModuleAlgorithm, core.ErrorCodeInvalidInput, "malformed algorithm config")

// ParseError 表示文本形式的配置无法解析，Err 为底层原因。
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse algorithm config: %v", e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformed, e.Err}
}

var (
	errMissingVersion     = errors.New("algorithm config must include a version field")
	errMissingName        = errors.New("algorithm config must include a name")
	errMissingDescription = errors.New("algorithm config must include a description")
)

// Parse 从 YAML（JSON 亦可，YAML 是其超集）解析算法配置。
// 缺少 version/name/description 时在校验前即失败；Parse 不调用 Validate。
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("parse yaml: %w", err)}
	}
	if err := finish(&cfg); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &cfg, nil
}

// ParseJSON 从 JSON 解析算法配置（存储层的序列化形式）。
func ParseJSON(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("parse json: %w", err)}
	}
	if err := finish(&cfg); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &cfg, nil
}

// LoadFile 从文件读取并解析算法配置。
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(data)
}

// Serialize 将配置写回 YAML（2 空格缩进）。所有已定义字段无损往返。
func Serialize(c *Config) ([]byte, error) {
	if c == nil {
		return nil, errors.New("failed to serialize algorithm config: nil config")
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to serialize algorithm config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to serialize algorithm config: %w", err)
	}
	return buf.Bytes(), nil
}

func finish(cfg *Config) error {
	if cfg.Version == "" {
		return errMissingVersion
	}
	if cfg.Name == "" {
		return errMissingName
	}
	if cfg.Description == "" {
		return errMissingDescription
	}
	cfg.normalize()
	return nil
}
