package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "players:all", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
	store := NewStore(time.Minute)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "k", 1)
	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatalf("expected hit before expiry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("expected miss after expiry")
	}

	stats := store.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Entries != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	ctx := context.Background()
	store.Set(ctx, "catalog:players", 1)
	store.Set(ctx, "catalog:player:p1", 2)
	store.Set(ctx, "identity:abc", 3)

	if removed := store.DeletePrefix(ctx, "catalog:"); removed != 2 {
		t.Fatalf("expected 2 removed entries, got %d", removed)
	}
	if _, ok := store.Get(ctx, "identity:abc"); !ok {
		t.Fatalf("expected unrelated key to survive")
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("db down")
		}
		return "ok", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err == nil {
		t.Fatalf("expected first load to fail")
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil || v != "ok" {
		t.Fatalf("expected second load to succeed, got %v err=%v", v, err)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
