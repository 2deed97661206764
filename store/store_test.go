package store

import (
	"context"
	"os"
	"reflect"
	"testing"

	"github.com/rushteam/feedkit/core"
)

// runKeyValueStoreSuite 对任意 KeyValueStore 实现跑同一组行为断言。
func runKeyValueStoreSuite(t *testing.T, s core.KeyValueStore) {
	ctx := context.Background()

	t.Run("get set delete", func(t *testing.T) {
		if _, err := s.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
			t.Fatalf("Get(missing) error = %v, want not found", err)
		}
		if err := s.Set(ctx, "k", []byte("v")); err != nil {
			t.Fatal(err)
		}
		got, err := s.Get(ctx, "k")
		if err != nil || string(got) != "v" {
			t.Fatalf("Get(k) = %q, %v", got, err)
		}
		if err := s.Delete(ctx, "k"); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
			t.Errorf("Get after Delete error = %v", err)
		}
	})

	t.Run("batch", func(t *testing.T) {
		if err := s.BatchSet(ctx, map[string][]byte{"b1": []byte("1"), "b2": []byte("2")}); err != nil {
			t.Fatal(err)
		}
		got, err := s.BatchGet(ctx, []string{"b1", "b2", "b3"})
		if err != nil {
			t.Fatal(err)
		}
		want := map[string][]byte{"b1": []byte("1"), "b2": []byte("2")}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("BatchGet() = %v, want %v", got, want)
		}
	})

	t.Run("sorted set", func(t *testing.T) {
		key := "z"
		for member, score := range map[string]float64{"a": 1, "b": 3, "c": 2, "d": 5} {
			if err := s.ZAdd(ctx, key, score, member); err != nil {
				t.Fatal(err)
			}
		}
		all, err := s.ZRange(ctx, key, 0, -1)
		if err != nil || !reflect.DeepEqual(all, []string{"d", "b", "c", "a"}) {
			t.Fatalf("ZRange(0,-1) = %v, %v", all, err)
		}
		page, _ := s.ZRange(ctx, key, 1, 2)
		if !reflect.DeepEqual(page, []string{"b", "c"}) {
			t.Errorf("ZRange(1,2) = %v", page)
		}
		between, _ := s.ZRangeByScore(ctx, key, 2, 3)
		if !reflect.DeepEqual(between, []string{"b", "c"}) {
			t.Errorf("ZRangeByScore(2,3) = %v", between)
		}
		if score, err := s.ZScore(ctx, key, "c"); err != nil || score != 2 {
			t.Errorf("ZScore(c) = %v, %v", score, err)
		}
		if err := s.ZRem(ctx, key, "b", "d"); err != nil {
			t.Fatal(err)
		}
		rest, _ := s.ZRange(ctx, key, 0, -1)
		if !reflect.DeepEqual(rest, []string{"c", "a"}) {
			t.Errorf("after ZRem = %v", rest)
		}
		if _, err := s.ZScore(ctx, key, "b"); !core.IsStoreNotFound(err) {
			t.Errorf("ZScore(removed) error = %v", err)
		}
	})

	t.Run("hash", func(t *testing.T) {
		key := "h"
		if _, err := s.HGet(ctx, key, "f"); !core.IsStoreNotFound(err) {
			t.Fatalf("HGet(missing) error = %v", err)
		}
		_ = s.HSet(ctx, key, "f1", []byte("x"))
		_ = s.HSet(ctx, key, "f2", []byte("y"))
		got, err := s.HGet(ctx, key, "f1")
		if err != nil || string(got) != "x" {
			t.Fatalf("HGet(f1) = %q, %v", got, err)
		}
		all, _ := s.HGetAll(ctx, key)
		if len(all) != 2 || string(all["f2"]) != "y" {
			t.Errorf("HGetAll() = %v", all)
		}
		if err := s.HDel(ctx, key, "f1"); err != nil {
			t.Fatal(err)
		}
		all, _ = s.HGetAll(ctx, key)
		if len(all) != 1 {
			t.Errorf("HGetAll after HDel = %v", all)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	runKeyValueStoreSuite(t, s)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	buf := []byte("abc")
	_ = s.Set(ctx, "k", buf)
	buf[0] = 'z'
	got, _ := s.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller buffer: %q", got)
	}
}

func TestMemoryStoreCloseIdempotent(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("FEEDKIT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FEEDKIT_TEST_REDIS_ADDR not set")
	}
	s, err := NewRedisStore(context.Background(), RedisOptions{Addr: addr, Prefix: "feedkit-test:" + t.Name() + ":"})
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	defer s.Close()
	for _, k := range []string{"k", "b1", "b2", "z", "h"} {
		_ = s.Delete(context.Background(), k)
	}
	runKeyValueStoreSuite(t, s)
}
