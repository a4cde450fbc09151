package credstore

import (
	"context"
	"errors"
	"os"
	"testing"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, TokenKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	if err := s.Set(ctx, TokenKey, "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, TokenKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}

	if err := s.Set(ctx, TokenKey, "def"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _ := s.Get(ctx, TokenKey); got != "def" {
		t.Errorf("expected def after overwrite, got %q", got)
	}

	if err := s.Delete(ctx, TokenKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, TokenKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// deleting a missing key is not an error
	if err := s.Delete(ctx, TokenKey); err != nil {
		t.Errorf("delete missing key: %v", err)
	}
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestBadger_InMemory(t *testing.T) {
	s, err := OpenBadger("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestBadger_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenBadger(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(ctx, TokenKey, "persisted"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = OpenBadger(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.Get(ctx, TokenKey)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got != "persisted" {
		t.Errorf("expected persisted, got %q", got)
	}
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("TRIPDESK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TRIPDESK_TEST_REDIS_ADDR not set")
	}
	s, err := OpenRedis(context.Background(), RedisConfig{Address: addr, Prefix: "tripdesk:test:"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "etcd"})
	if !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got %v", err)
	}
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(context.Background(), Options{Driver: "memory"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Fatalf("expected *Memory, got %T", s)
	}
}
