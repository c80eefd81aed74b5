package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type cachedView struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewClientFromRedis(rdb), mr
}

func TestGetOrSet(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	loads := 0
	getter := func() (interface{}, error) {
		loads++
		return []cachedView{{Name: "work", Count: 2}}, nil
	}

	for i := 0; i < 3; i++ {
		var got []cachedView
		if err := client.GetOrSet(ctx, "categories:view:1", &got, time.Minute, getter); err != nil {
			t.Fatalf("GetOrSet: %v", err)
		}
		if len(got) != 1 || got[0].Name != "work" || got[0].Count != 2 {
			t.Errorf("unexpected value: %+v", got)
		}
	}
	if loads != 1 {
		t.Errorf("getter called %d times, want 1", loads)
	}
	if mr.TTL("categories:view:1") != time.Minute {
		t.Errorf("ttl = %v", mr.TTL("categories:view:1"))
	}
	if mr.Exists("lock:categories:view:1") {
		t.Error("lock should be released")
	}

	// หมดอายุแล้วต้องโหลดใหม่
	mr.FastForward(2 * time.Minute)
	var got []cachedView
	client.GetOrSet(ctx, "categories:view:1", &got, time.Minute, getter)
	if loads != 2 {
		t.Errorf("getter called %d times after expiry, want 2", loads)
	}
}

func TestGetOrSet_GetterError(t *testing.T) {
	client, mr := newTestClient(t)
	boom := errors.New("db down")

	var got []cachedView
	err := client.GetOrSet(context.Background(), "k", &got, time.Minute, func() (interface{}, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
	if mr.Exists("k") {
		t.Error("failed load must not be cached")
	}
}

func TestInvalidate(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	mr.Set("categories:view:a", `{"name":"a"}`)
	mr.Set("other", `{"name":"other"}`)

	if err := client.Invalidate(ctx, "categories:view:a"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if mr.Exists("categories:view:a") {
		t.Error("key should be deleted")
	}
	if !mr.Exists("other") {
		t.Error("unrelated key should survive")
	}
	if got, _ := mr.Get("gen:categories:view:a"); got != "1" {
		t.Errorf("generation = %q, want 1", got)
	}
	if err := client.Invalidate(ctx); err != nil {
		t.Errorf("Invalidate without keys: %v", err)
	}

	var v cachedView
	if err := client.GetJSON(ctx, "categories:view:a", &v); !errors.Is(err, redis.Nil) {
		t.Errorf("expected redis.Nil, got %v", err)
	}
}

func TestGetOrSet_InvalidatedDuringLoad(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	count := int64(0)
	getter := func() (interface{}, error) {
		view := []cachedView{{Name: "work", Count: count}}
		if count == 0 {
			// มีคนแก้ข้อมูลหลังอ่านแต่ก่อน getter คืนค่า
			count = 1
			if err := client.Invalidate(ctx, "categories:view:1"); err != nil {
				t.Errorf("Invalidate: %v", err)
			}
		}
		return view, nil
	}

	var got []cachedView
	if err := client.GetOrSet(ctx, "categories:view:1", &got, time.Minute, getter); err != nil {
		t.Fatalf("GetOrSet: %v", err)
	}
	if got[0].Count != 0 {
		t.Errorf("caller still receives its own load, got %+v", got)
	}
	if mr.Exists("categories:view:1") {
		t.Fatal("value loaded before invalidation must not be cached")
	}

	got = nil
	if err := client.GetOrSet(ctx, "categories:view:1", &got, time.Minute, getter); err != nil {
		t.Fatalf("GetOrSet: %v", err)
	}
	if got[0].Count != 1 {
		t.Errorf("Count = %d, want 1", got[0].Count)
	}
	if !mr.Exists("categories:view:1") {
		t.Error("fresh value should be cached")
	}
}

func TestGetOrSet_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })
	client := NewClientFromRedis(rdb)
	mr.Close()

	loads := 0
	var got []cachedView
	err := client.GetOrSet(context.Background(), "categories:view:1", &got, time.Minute, func() (interface{}, error) {
		loads++
		return []cachedView{{Name: "work"}}, nil
	})
	if err != nil {
		t.Fatalf("GetOrSet should load directly when Redis is down: %v", err)
	}
	if loads != 1 || len(got) != 1 || got[0].Name != "work" {
		t.Errorf("loads = %d, got %+v", loads, got)
	}

	boom := errors.New("db down")
	err = client.GetOrSet(context.Background(), "categories:view:1", &got, time.Minute, func() (interface{}, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("getter error = %v, want %v", err, boom)
	}
}

func TestPing(t *testing.T) {
	client, mr := newTestClient(t)
	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
	mr.Close()
	if err := client.Ping(context.Background()); err == nil {
		t.Error("expected ping to fail after server stopped")
	}
}
