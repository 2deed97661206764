package conv

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{"float64", 2.5, 2.5, true},
		{"int", 7, 7, true},
		{"int64", int64(9), 9, true},
		{"uint32", uint32(3), 3, true},
		{"json number", json.Number("12"), 12, true},
		{"bad json number", json.Number("x"), 0, false},
		{"string is not numeric", "5", 0, false},
		{"bool is not numeric", true, 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ToFloat64(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSliceAnyToString(t *testing.T) {
	got := SliceAnyToString([]any{"hn", 42.0, true})
	want := []string{"hn", "42"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SliceAnyToString() = %v, want %v", got, want)
	}
	if got := SliceAnyToString([]string{"a"}); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("SliceAnyToString([]string) = %v", got)
	}
	if got := SliceAnyToString("a"); got != nil {
		t.Errorf("SliceAnyToString(string) = %v, want nil", got)
	}
}

func TestConfigGet(t *testing.T) {
	cfg := map[string]any{
		"feedUrl":  "https://example.com/rss",
		"maxItems": 25.0,
		"enabled":  false,
		"timeout":  "3s",
		"interval": 90,
	}
	if got := ConfigGet(cfg, "feedUrl", ""); got != "https://example.com/rss" {
		t.Errorf("ConfigGet(feedUrl) = %q", got)
	}
	if got := ConfigGet(cfg, "enabled", true); got != false {
		t.Errorf("ConfigGet(enabled) = %v", got)
	}
	if got := ConfigGet(cfg, "maxItems", "x"); got != "x" {
		t.Errorf("ConfigGet type mismatch should return default, got %q", got)
	}
	if got := ConfigGetInt64(cfg, "maxItems", 0); got != 25 {
		t.Errorf("ConfigGetInt64(maxItems) = %d", got)
	}
	if got := ConfigGetInt64(nil, "maxItems", 30); got != 30 {
		t.Errorf("ConfigGetInt64(nil) = %d", got)
	}
	if got := ConfigGetDuration(cfg, "timeout", 0); got != 3*time.Second {
		t.Errorf("ConfigGetDuration(timeout) = %v", got)
	}
	if got := ConfigGetDuration(cfg, "interval", 0); got != 90*time.Second {
		t.Errorf("ConfigGetDuration(interval) = %v", got)
	}
	if got := ConfigGetDuration(cfg, "missing", time.Minute); got != time.Minute {
		t.Errorf("ConfigGetDuration(missing) = %v", got)
	}
}
