package algorithm

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/rushteam/feedkit/core"
)

func validConfig() *Config {
	return &Config{
		Version:     "0.1.0",
		Name:        "test",
		Description: "test algorithm",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string // 空表示合法
	}{
		{name: "identity config is valid", mutate: func(c *Config) {}},
		{
			name:   "bad version",
			mutate: func(c *Config) { c.Version = "1.0" },
			want:   "Invalid version format. Expected semver",
		},
		{
			name:   "version with suffix",
			mutate: func(c *Config) { c.Version = "1.0.0-beta" },
			want:   "Invalid version format. Expected semver",
		},
		{
			name:   "blank name",
			mutate: func(c *Config) { c.Name = "   " },
			want:   "Name is required",
		},
		{
			name:   "blank description",
			mutate: func(c *Config) { c.Description = "\t" },
			want:   "Description is required",
		},
		{
			name:   "version checked before name",
			mutate: func(c *Config) { c.Version = "x"; c.Name = "" },
			want:   "Invalid version format",
		},
		{
			name: "unknown filter type",
			mutate: func(c *Config) {
				c.Filters = []FilterConfig{{Type: "regex", Mode: ModeInclude}}
			},
			want: "Invalid filter type: regex",
		},
		{
			name: "unknown filter mode",
			mutate: func(c *Config) {
				c.Filters = []FilterConfig{{Type: FilterSource, Mode: "only"}}
			},
			want: "Invalid filter mode: only",
		},
		{
			name: "unknown booster type",
			mutate: func(c *Config) {
				c.Boosters = []BoosterConfig{{Type: "virality", Weight: 1}}
			},
			want: "Invalid booster type: virality",
		},
		{
			name: "negative weight",
			mutate: func(c *Config) {
				c.Boosters = []BoosterConfig{{Type: BoosterRecency, Weight: -0.5}}
			},
			want: "Booster weight must be a positive number",
		},
		{
			name: "NaN weight",
			mutate: func(c *Config) {
				c.Boosters = []BoosterConfig{{Type: BoosterRecency, Weight: math.NaN()}}
			},
			want: "Booster weight must be a positive number",
		},
		{
			name: "zero weight is allowed",
			mutate: func(c *Config) {
				c.Boosters = []BoosterConfig{{Type: BoosterRecency, Weight: 0}}
			},
		},
		{
			name:   "unknown sort type",
			mutate: func(c *Config) { c.Sort = &SortConfig{Type: "popularity", Direction: Desc} },
			want:   "Invalid sort type: popularity",
		},
		{
			name:   "unknown sort direction",
			mutate: func(c *Config) { c.Sort = &SortConfig{Type: SortScore, Direction: "up"} },
			want:   "Invalid sort direction: up",
		},
		{
			name:   "zero maxItems",
			mutate: func(c *Config) { c.Limit = &LimitConfig{MaxItems: 0} },
			want:   "Limit maxItems must be a positive number",
		},
		{
			name:   "negative offset",
			mutate: func(c *Config) { c.Limit = &LimitConfig{MaxItems: 5, Offset: -1} },
			want:   "Limit offset must be a non-negative number",
		},
		{
			name: "filters checked before boosters",
			mutate: func(c *Config) {
				c.Filters = []FilterConfig{{Type: "bad", Mode: ModeInclude}}
				c.Boosters = []BoosterConfig{{Type: "bad"}}
			},
			want: "Invalid filter type: bad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want %q", tt.want)
			}
			if !strings.HasPrefix(err.Error(), tt.want) {
				t.Errorf("Validate() = %q, want prefix %q", err.Error(), tt.want)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Validate() error type = %T, want *ValidationError", err)
			}
			if !core.IsInvalidInput(err) {
				t.Errorf("core.IsInvalidInput(%v) = false", err)
			}
		})
	}
}

func TestValidateNil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatal("Validate(nil) = nil, want error")
	}
}
