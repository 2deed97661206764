package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rushteam/feedkit/core"
)

func TestRowConversion(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	it := &core.ContentItem{
		ID:        "1",
		Source:    "hn",
		URL:       "https://example.com",
		Title:     "hello",
		Timestamp: ts,
		Type:      core.ContentArticle,
		Meta:      core.Meta{"score": 5.0, "author": "a"},
	}
	r, err := toRow(it)
	if err != nil {
		t.Fatal(err)
	}
	if !r.TS.Equal(ts) || r.TS.Location() != time.UTC {
		t.Errorf("TS = %v, want UTC of %v", r.TS, ts)
	}
	back, err := r.item()
	if err != nil {
		t.Fatal(err)
	}
	if back.Meta.Number("score") != 5 || back.Meta.String("author") != "a" {
		t.Errorf("meta = %v", back.Meta)
	}

	empty, _ := toRow(&core.ContentItem{ID: "2"})
	if string(empty.Meta) != "{}" {
		t.Errorf("empty meta = %s", empty.Meta)
	}
	if back, _ := empty.item(); back.Meta != nil {
		t.Errorf("empty meta should decode to nil, got %v", back.Meta)
	}
}

func TestContentStore(t *testing.T) {
	dsn := os.Getenv("FEEDKIT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("FEEDKIT_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, dsn, 2)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()
	if err := s.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.ExecContext(ctx, `TRUNCATE content_items`); err != nil {
		t.Fatal(err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	items := []*core.ContentItem{
		{ID: "a", Source: "hn", Timestamp: now.Add(-time.Hour), Type: core.ContentArticle},
		{ID: "b", Source: "rss", Timestamp: now.Add(-2 * time.Hour), Type: core.ContentImage},
		{ID: "c", Source: "hn", Timestamp: now.Add(-48 * time.Hour), Type: core.ContentArticle},
	}
	if err := s.Store(ctx, items); err != nil {
		t.Fatal(err)
	}
	// upsert
	if err := s.Store(ctx, []*core.ContentItem{{ID: "a", Source: "hn", Title: "updated", Timestamp: now.Add(-time.Hour), Type: core.ContentArticle}}); err != nil {
		t.Fatal(err)
	}

	all, err := s.All(ctx, 10, 0)
	if err != nil || len(all) != 3 || all[0].ID != "a" || all[0].Title != "updated" {
		t.Fatalf("All() = %v, %v", all, err)
	}
	exists, err := s.Exists(ctx, []string{"a", "zzz", "c"})
	if err != nil || !exists["a"] || !exists["c"] || exists["zzz"] {
		t.Errorf("Exists() = %v, %v", exists, err)
	}
	hn, _ := s.BySource(ctx, "hn", nil)
	if len(hn) != 2 {
		t.Errorf("BySource(hn) = %d items", len(hn))
	}
	recent, _ := s.Since(ctx, now.Add(-3*time.Hour))
	if len(recent) != 2 {
		t.Errorf("Since() = %d items", len(recent))
	}
	n, err := s.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
	if err != nil || n != 1 {
		t.Errorf("DeleteOlderThan() = %d, %v", n, err)
	}
}
