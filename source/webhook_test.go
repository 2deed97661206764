package source

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rushteam/feedkit/core"
)

func TestWebhookProcess(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	w, _ := NewWebhook("hook", "", map[string]any{"secret": "s3cret", "triggerNotification": true})
	w.now = func() time.Time { return now }

	if _, err := w.Process(map[string]any{"title": "x", "secret": "wrong"}); !errors.Is(err, ErrInvalidSecret) {
		t.Fatalf("Process(wrong secret) error = %v", err)
	}
	if w.Pending() != 0 {
		t.Fatal("rejected payload must not be queued")
	}

	item, err := w.Process(map[string]any{
		"secret":    "s3cret",
		"id":        "deploy-42",
		"title":     "Deploy finished",
		"url":       "https://ci.example.com/42",
		"type":      "event",
		"timestamp": "2024-03-01T11:00:00Z",
		"env":       "prod",
	})
	if err != nil {
		t.Fatal(err)
	}
	if item.ID != "deploy-42" || item.Source != "hook" || item.Type != core.ContentEvent {
		t.Errorf("item = %+v", item)
	}
	if !item.Timestamp.Equal(time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)) {
		t.Errorf("timestamp = %v", item.Timestamp)
	}
	if _, ok := item.Meta["secret"]; ok {
		t.Error("secret leaked into meta")
	}
	if item.Meta.String("env") != "prod" || !item.Meta.Bool(core.MetaTriggerNotification) {
		t.Errorf("meta = %v", item.Meta)
	}
	if item.Meta.String("webhookReceived") != "2024-03-01T12:00:00Z" {
		t.Errorf("webhookReceived = %v", item.Meta["webhookReceived"])
	}
}

func TestWebhookDefaults(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	w, _ := NewWebhook("hook", "", nil)
	w.now = func() time.Time { return now }

	item, err := w.Process(map[string]any{"type": "podcast"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(item.ID, "webhook-") {
		t.Errorf("ID = %q", item.ID)
	}
	if item.Title != "Webhook Notification" || item.Type != core.ContentNotification {
		t.Errorf("item = %+v", item)
	}
	if !item.Timestamp.Equal(now) {
		t.Errorf("timestamp = %v, want receive time", item.Timestamp)
	}

	ms, _ := w.Process(map[string]any{"timestamp": float64(1709287200000)})
	if !ms.Timestamp.Equal(time.UnixMilli(1709287200000)) {
		t.Errorf("millisecond timestamp = %v", ms.Timestamp)
	}
}

func TestWebhookFetchDrainsQueue(t *testing.T) {
	w, _ := NewWebhook("hook", "", nil)
	_, _ = w.Process(map[string]any{"id": "old", "timestamp": "2024-01-01T00:00:00Z"})
	_, _ = w.Process(map[string]any{"id": "new", "timestamp": "2024-03-01T00:00:00Z"})
	if w.Pending() != 2 {
		t.Fatalf("Pending() = %d", w.Pending())
	}

	since := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	items := w.Fetch(context.Background(), &since)
	if len(items) != 1 || items[0].ID != "new" {
		t.Errorf("Fetch(since) = %v", items)
	}
	if w.Pending() != 0 {
		t.Errorf("Pending() after fetch = %d", w.Pending())
	}
	if items := w.Fetch(context.Background(), nil); len(items) != 0 {
		t.Errorf("second Fetch() = %v", items)
	}

	_, _ = w.Process(map[string]any{"id": "x"})
	w.ClearPending()
	if w.Pending() != 0 {
		t.Error("ClearPending() left items")
	}
}

func TestWebhookConcurrentProcess(t *testing.T) {
	w, _ := NewWebhook("hook", "", nil)
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = w.Process(map[string]any{"title": "t"})
		}()
	}
	wg.Wait()
	if got := len(w.Fetch(context.Background(), nil)); got != 50 {
		t.Errorf("fetched %d, want 50", got)
	}
}
