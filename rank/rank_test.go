package rank

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rushteam/feedkit/algorithm"
	"github.com/rushteam/feedkit/core"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEngagementExample(t *testing.T) {
	items := []*core.ContentItem{{
		ID:        "1",
		Source:    "hn",
		Timestamp: now,
		Meta:      core.Meta{"comments": 10, "score": 5},
	}}
	out := Apply(items, []algorithm.BoosterConfig{{Type: algorithm.BoosterEngagement, Weight: 1}}, now)

	want := 1 + math.Log10(26)
	if !approx(out[0].Score, want) {
		t.Errorf("Score = %v, want %v", out[0].Score, want)
	}
	if math.Abs(out[0].Score-2.415) > 0.001 {
		t.Errorf("Score = %v, want ≈2.415", out[0].Score)
	}
	if !approx(out[0].ScoreBreakdown["engagement"], want) || out[0].ScoreBreakdown[core.BreakdownBase] != 1 {
		t.Errorf("ScoreBreakdown = %v", out[0].ScoreBreakdown)
	}
	if out[0].Labels[LabelBoostedBy].Value != "engagement" {
		t.Errorf("Labels = %v", out[0].Labels)
	}
}

func TestBoosters(t *testing.T) {
	fresh := &core.ContentItem{ID: "f", Source: "hn", Timestamp: now}
	dayOld := &core.ContentItem{ID: "d", Source: "rss", Timestamp: now.Add(-24 * time.Hour)}
	rctx := &core.RankContext{Now: now}

	tests := []struct {
		name string
		b    Booster
		item *core.ContentItem
		want float64
	}{
		{"recency fresh", &Recency{Weight: 2}, fresh, 3},
		{"recency one day, weight 1", &Recency{Weight: 1}, dayOld, 1 + math.Exp(-1)},
		{"recency weight zero", &Recency{Weight: 0}, fresh, 1},
		{"engagement no meta", &Engagement{Weight: 5}, fresh, 1},
		{"engagement string values ignored", &Engagement{Weight: 1},
			&core.ContentItem{Meta: core.Meta{"score": "100", "shares": 3}}, 1 + math.Log10(10)},
		{"affinity preferred", NewSourceAffinity(0.5, []string{"hn"}), fresh, 1.5},
		{"affinity other", NewSourceAffinity(0.5, []string{"hn"}), dayOld, 1},
		{"affinity no params", New(algorithm.BoosterConfig{Type: algorithm.BoosterSourceAffinity, Weight: 3}), fresh, 1},
		{"unknown type", New(algorithm.BoosterConfig{Type: "virality", Weight: 3}), fresh, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.Boost(rctx, tt.item); !approx(got, tt.want) {
				t.Errorf("Boost() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMultiplicativeAndLastWriterWins(t *testing.T) {
	items := []*core.ContentItem{{ID: "1", Source: "hn", Timestamp: now}}
	boosters := []algorithm.BoosterConfig{
		{Type: algorithm.BoosterSourceAffinity, Weight: 1, Params: map[string]any{"preferredSources": []any{"hn"}}},
		{Type: algorithm.BoosterSourceAffinity, Weight: 0.5, Params: map[string]any{"preferredSources": []any{"hn"}}},
	}
	out := Apply(items, boosters, now)
	if !approx(out[0].Score, 2*1.5) {
		t.Errorf("Score = %v, want 3", out[0].Score)
	}
	if got := out[0].ScoreBreakdown["sourceAffinity"]; got != 1.5 {
		t.Errorf("breakdown = %v, want 1.5 (last writer)", got)
	}
}

func TestMonotonicInWeight(t *testing.T) {
	items := []*core.ContentItem{
		{ID: "new", Source: "hn", Timestamp: now.Add(-time.Hour), Meta: core.Meta{"likes": 3}},
		{ID: "old", Source: "rss", Timestamp: now.Add(-30 * 24 * time.Hour), Meta: core.Meta{"shares": 100}},
	}
	for _, typ := range []algorithm.BoosterType{algorithm.BoosterRecency, algorithm.BoosterEngagement, algorithm.BoosterSourceAffinity} {
		prev := []float64{0, 0}
		for _, w := range []float64{0, 0.1, 0.5, 1, 2, 10} {
			cfg := algorithm.BoosterConfig{Type: typ, Weight: w, Params: map[string]any{"preferredSources": []string{"hn"}}}
			out := Apply(items, []algorithm.BoosterConfig{cfg}, now)
			for i, it := range out {
				if it.Score < prev[i]-1e-12 {
					t.Errorf("%s: score of %s decreased from %v to %v at weight %v", typ, it.Content.ID, prev[i], it.Score, w)
				}
				prev[i] = it.Score
			}
		}
	}
}

func TestApplyIdentityAndOrder(t *testing.T) {
	items := []*core.ContentItem{{ID: "b"}, {ID: "a"}, {ID: "c"}}
	out := Apply(items, nil, now)
	for i, it := range out {
		if it.Content != items[i] || it.Score != 1 || it.ScoreBreakdown[core.BreakdownBase] != 1 {
			t.Errorf("out[%d] = %+v", i, it)
		}
	}
}

func TestBoostNodeCopiesItems(t *testing.T) {
	in := core.WrapAll([]*core.ContentItem{{ID: "1", Source: "hn", Timestamp: now}})
	n := NewBoostNode([]algorithm.BoosterConfig{{Type: algorithm.BoosterRecency, Weight: 1}})
	out, err := n.Process(context.Background(), &core.RankContext{Now: now}, in)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] == in[0] {
		t.Fatal("Process() must copy items")
	}
	if in[0].Score != 1 || len(in[0].ScoreBreakdown) != 1 || in[0].Labels != nil {
		t.Errorf("input mutated: %+v", in[0])
	}
	if !approx(out[0].Score, 2) {
		t.Errorf("Score = %v, want 2", out[0].Score)
	}
}
