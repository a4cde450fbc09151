package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"tripdesk/pkg/logger"
)

func exerciseGetOrSet(t *testing.T, s Service) {
	t.Helper()
	ctx := context.Background()

	var miss map[string]any
	if err := s.Get(ctx, "flights:JFK:SFO", &miss); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected cache miss, got %v", err)
	}

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return map[string]any{"data": []any{map[string]any{"id": "1"}}}, nil
	}

	for i := 0; i < 3; i++ {
		var got map[string]any
		if err := s.GetOrSet(ctx, "flights:JFK:SFO", time.Minute, fetch, &got); err != nil {
			t.Fatalf("GetOrSet failed: %v", err)
		}
		items, _ := got["data"].([]any)
		if len(items) != 1 {
			t.Fatalf("unexpected payload %v", got)
		}
	}
	if calls != 1 {
		t.Errorf("expected fetcher to run once, ran %d times", calls)
	}

	if err := s.Delete(ctx, "flights:JFK:SFO"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	var after map[string]any
	if err := s.Get(ctx, "flights:JFK:SFO", &after); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected miss after delete, got %v", err)
	}

	boom := errors.New("upstream down")
	var dest map[string]any
	err := s.GetOrSet(ctx, "hotels:Paris", time.Minute, func() (interface{}, error) { return nil, boom }, &dest)
	if !errors.Is(err, boom) {
		t.Errorf("expected fetcher error, got %v", err)
	}
}

func TestMemory(t *testing.T) {
	exerciseGetOrSet(t, NewMemory(logger.Discard()))
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory(logger.Discard())
	now := time.Date(2026, 11, 1, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	ctx := context.Background()
	if err := m.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatal(err)
	}

	var got string
	if err := m.Get(ctx, "k", &got); err != nil || got != "v" {
		t.Fatalf("expected hit, got %q %v", got, err)
	}

	now = now.Add(time.Minute)
	if err := m.Get(ctx, "k", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected expired entry to miss, got %v", err)
	}
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("TRIPDESK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TRIPDESK_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	s := NewService(client, "tripdesk:test:cache:"+time.Now().Format("150405.000")+":", logger.Discard())
	if err := s.Ping(context.Background()); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	exerciseGetOrSet(t, s)
}
