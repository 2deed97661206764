package source

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/rushteam/feedkit/core"
)

func mkItems(source string, ids ...string) []*core.ContentItem {
	out := make([]*core.ContentItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, &core.ContentItem{ID: id, Source: source, Title: id, Type: core.ContentArticle})
	}
	return out
}

func idsOf(items []*core.ContentItem) string {
	s := make([]string, 0, len(items))
	for _, it := range items {
		s = append(s, it.ID)
	}
	return fmt.Sprint(s)
}

func TestFetchAllMergesInConnectorOrder(t *testing.T) {
	connectors := []Connector{
		// 慢的来源排在前面，结果顺序仍按 connector 顺序
		&stubConnector{id: "slow", enabled: true, delay: 30 * time.Millisecond, items: mkItems("slow", "s1", "dup")},
		&stubConnector{id: "fast", enabled: true, items: mkItems("fast", "f1", "dup", "f2")},
		&stubConnector{id: "off", enabled: false, items: mkItems("off", "o1")},
	}

	res := FetchAll(context.Background(), connectors, FetchOptions{MaxConcurrent: 2})
	if got := idsOf(res.Items); got != "[s1 dup f1 f2]" {
		t.Errorf("items = %s", got)
	}
	if res.Items[1].Source != "slow" {
		t.Error("dedup must keep the first occurrence")
	}
	if len(res.PerSource) != 2 {
		t.Fatalf("PerSource = %d, disabled sources should be skipped", len(res.PerSource))
	}
	if res.PerSource[0].SourceID != "slow" || res.PerSource[0].Items != 2 || res.PerSource[1].Items != 3 {
		t.Errorf("PerSource = %+v", res.PerSource)
	}
}

func TestFetchAllIsolatesFailures(t *testing.T) {
	boom := errors.New("boom")
	connectors := []Connector{
		&stubConnector{id: "bad", enabled: true, err: boom},
		&stubConnector{id: "hung", enabled: true, delay: time.Second, items: mkItems("hung", "h1")},
		&stubConnector{id: "good", enabled: true, items: mkItems("good", "g1")},
	}

	start := time.Now()
	res := FetchAll(context.Background(), connectors, FetchOptions{Timeout: 50 * time.Millisecond})
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("FetchAll took %v, timeout not applied", elapsed)
	}
	if got := idsOf(res.Items); got != "[g1]" {
		t.Errorf("items = %s", got)
	}
	if !errors.Is(res.PerSource[0].Err, boom) {
		t.Errorf("bad err = %v", res.PerSource[0].Err)
	}
	if !errors.Is(res.PerSource[1].Err, context.DeadlineExceeded) {
		t.Errorf("hung err = %v", res.PerSource[1].Err)
	}
	if res.PerSource[2].Err != nil || res.PerSource[2].Items != 1 {
		t.Errorf("good = %+v", res.PerSource[2])
	}
}

func TestFetchAllEmpty(t *testing.T) {
	res := FetchAll(context.Background(), nil, FetchOptions{})
	if res.Items == nil || len(res.Items) != 0 || len(res.PerSource) != 0 {
		t.Errorf("FetchAll(nil) = %+v", res)
	}
}

func TestFetchAllMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics()
	if err := m.Register(reg); err != nil {
		t.Fatal(err)
	}

	connectors := []Connector{
		&stubConnector{id: "good", enabled: true, items: mkItems("good", "a", "b")},
		&stubConnector{id: "bad", enabled: true, err: errors.New("boom")},
	}
	FetchAll(context.Background(), connectors, FetchOptions{Metrics: m})
	FetchAll(context.Background(), connectors[:1], FetchOptions{Metrics: m})

	tests := []struct {
		vec    *prometheus.CounterVec
		labels []string
		want   float64
	}{
		{m.fetchTotal, []string{"good", ResultSuccess}, 2},
		{m.fetchTotal, []string{"bad", ResultFailure}, 1},
		{m.fetchedItems, []string{"good"}, 4},
		{m.fetchedItems, []string{"bad"}, 0},
	}
	for _, tt := range tests {
		var metric dto.Metric
		if err := tt.vec.WithLabelValues(tt.labels...).Write(&metric); err != nil {
			t.Fatal(err)
		}
		if got := metric.GetCounter().GetValue(); got != tt.want {
			t.Errorf("%v = %v, want %v", tt.labels, got, tt.want)
		}
	}

	var hist dto.Metric
	if err := m.fetchDuration.WithLabelValues("good").(prometheus.Histogram).Write(&hist); err != nil {
		t.Fatal(err)
	}
	if got := hist.GetHistogram().GetSampleCount(); got != 2 {
		t.Errorf("duration samples = %d, want 2", got)
	}
}
