// Package dsl 提供基于 CEL (Common Expression Language) 的内容规则表达式。
//
// 表达式只在接入层使用（通知规则），排序引擎不执行任何用户表达式。
package dsl

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"

	"github.com/rushteam/feedkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("now", cel.TimestampType),
		cel.CrossTypeNumericComparisons(true),
		ext.Strings(),
	)
}

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Expr 是编译后的内容规则表达式，可并发复用。
//
// 可用变量：
//   - item.id / item.source / item.url / item.title / item.type：字符串
//   - item.timestamp：时间戳；item.ageSeconds：相对 now 的秒数
//   - item.meta：开放元数据，缺失字段请先用 has(item.meta.x) 判断
//   - now：求值时间
//
// 示例：
//   - `item.source == "hn" && item.meta.score > 200`
//   - `item.title.lowerAscii().contains("outage")`
//   - `has(item.meta.upvotes) && item.meta.upvotes >= 1000 && item.ageSeconds < 3600`
type Expr struct {
	src string
	prg cel.Program
}

// Compile 编译表达式。语法错误或结果不是布尔值时返回错误。
func Compile(expr string) (*Expr, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression must return boolean, got %s", out)
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Expr{src: expr, prg: prg}, nil
}

func (e *Expr) String() string { return e.src }

// Match 对单条内容求值。访问不存在的 meta 字段等运行期错误会原样返回。
func (e *Expr) Match(item *core.ContentItem, now time.Time) (bool, error) {
	out, _, err := e.prg.Eval(map[string]any{
		"item": ItemInput(item, now),
		"now":  now,
	})
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// ItemInput 构建表达式中 item 变量的值
func ItemInput(item *core.ContentItem, now time.Time) map[string]any {
	meta := map[string]any(item.Meta)
	if meta == nil {
		meta = map[string]any{}
	}
	return map[string]any{
		"id":         item.ID,
		"source":     item.Source,
		"url":        item.URL,
		"title":      item.Title,
		"type":       string(item.Type),
		"timestamp":  item.Timestamp,
		"ageSeconds": item.Age(now).Seconds(),
		"meta":       meta,
	}
}
