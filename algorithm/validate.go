package algorithm

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/rushteam/feedkit/core"
)

var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// ErrInvalid 是所有校验失败的领域错误，可用 core.IsInvalidInput 判断。
var ErrInvalid = core.NewDomainError(core.ModuleAlgorithm, core.ErrorCodeInvalidInput, "invalid algorithm config")

// ValidationError 描述配置的结构/语义缺陷。Reason 为面向用户的原因。
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrInvalid }

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ValidFilterType 判断过滤器类型是否属于封闭集合。
func ValidFilterType(t FilterType) bool {
	switch t {
	case FilterSource, FilterKeyword, FilterContentType, FilterAge:
		return true
	}
	return false
}

// ValidBoosterType 判断打分器类型是否属于封闭集合。
func ValidBoosterType(t BoosterType) bool {
	switch t {
	case BoosterRecency, BoosterEngagement, BoosterSourceAffinity:
		return true
	}
	return false
}

// ValidSortType 判断排序类型是否属于封闭集合。
func ValidSortType(t SortType) bool {
	switch t {
	case SortChronological, SortScore, SortRandom:
		return true
	}
	return false
}

// Validate 按固定顺序校验配置，遇到第一个问题即返回 *ValidationError；合法时返回 nil。
// 合法配置会被就地规范化（空列表置 nil，booster params 中的字符串列表统一为 []string），
// 因此 Parse(Serialize(c)) 与 c 深度相等。
//
// 这是唯一的严格性关口：引擎执行期遇到未知类型只会降级为 no-op。
func Validate(c *Config) error {
	if c == nil {
		return invalid("Algorithm config is required")
	}
	if !versionPattern.MatchString(c.Version) {
		return invalid("Invalid version format. Expected semver (e.g., \"0.1.0\")")
	}
	if strings.TrimSpace(c.Name) == "" {
		return invalid("Name is required")
	}
	if strings.TrimSpace(c.Description) == "" {
		return invalid("Description is required")
	}

	for _, f := range c.Filters {
		if !ValidFilterType(f.Type) {
			return invalid("Invalid filter type: %s", f.Type)
		}
		if f.Mode != ModeInclude && f.Mode != ModeExclude {
			return invalid("Invalid filter mode: %s", f.Mode)
		}
	}

	for _, b := range c.Boosters {
		if !ValidBoosterType(b.Type) {
			return invalid("Invalid booster type: %s", b.Type)
		}
		if math.IsNaN(b.Weight) || math.IsInf(b.Weight, 0) || b.Weight < 0 {
			return invalid("Booster weight must be a positive number")
		}
	}

	if c.Sort != nil {
		if !ValidSortType(c.Sort.Type) {
			return invalid("Invalid sort type: %s", c.Sort.Type)
		}
		if c.Sort.Direction != Asc && c.Sort.Direction != Desc {
			return invalid("Invalid sort direction: %s", c.Sort.Direction)
		}
	}

	if c.Limit != nil {
		if c.Limit.MaxItems <= 0 {
			return invalid("Limit maxItems must be a positive number")
		}
		if c.Limit.Offset < 0 {
			return invalid("Limit offset must be a non-negative number")
		}
	}

	c.normalize()
	return nil
}
