package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"slate-api/domain"
)

type countingBackend struct {
	board *domain.Board
	loads int
	saves int
}

func (c *countingBackend) LoadBoard(ctx context.Context) (*domain.Board, error) {
	c.loads++
	return c.board, nil
}

func (c *countingBackend) SaveBoard(ctx context.Context, b *domain.Board) error {
	c.saves++
	c.board = b
	return nil
}

func newTestCache(t *testing.T) (*Cache, *countingBackend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	base := &countingBackend{board: domain.SeedBoard(time.Unix(0, 0).UTC())}
	return NewCache(base, client, time.Minute, "board:cache"), base, mr
}

func TestCacheReadThrough(t *testing.T) {
	cache, base, mr := newTestCache(t)
	ctx := context.Background()

	if _, err := cache.LoadBoard(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if base.loads != 1 {
		t.Fatalf("expected one backend load, got %d", base.loads)
	}
	if !mr.Exists("board:cache") {
		t.Fatal("document not cached after miss")
	}

	b, err := cache.LoadBoard(ctx)
	if err != nil {
		t.Fatalf("cached load: %v", err)
	}
	if base.loads != 1 {
		t.Fatalf("expected cache hit, backend loads = %d", base.loads)
	}
	if len(b.ColumnOrder) != 3 {
		t.Fatalf("cached document truncated: %+v", b)
	}
}

func TestCacheEvictsOnSave(t *testing.T) {
	cache, base, mr := newTestCache(t)
	ctx := context.Background()

	if _, err := cache.LoadBoard(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	b := base.board
	b.Columns["column-2"].TaskIDs = append(b.Columns["column-2"].TaskIDs, "task-1")
	if err := cache.SaveBoard(ctx, b); err != nil {
		t.Fatalf("save: %v", err)
	}
	if base.saves != 1 {
		t.Fatalf("expected write-through, saves = %d", base.saves)
	}
	if mr.Exists("board:cache") {
		t.Fatal("cached document not evicted after save")
	}

	got, err := cache.LoadBoard(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if base.loads != 2 {
		t.Fatalf("expected backend reload after eviction, loads = %d", base.loads)
	}
	if len(got.Columns["column-2"].TaskIDs) != 1 {
		t.Fatalf("stale document served: %v", got.Columns["column-2"].TaskIDs)
	}
}

func TestCacheCorruptEntryFallsBack(t *testing.T) {
	cache, base, mr := newTestCache(t)
	mr.Set("board:cache", "{corrupt")

	if _, err := cache.LoadBoard(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if base.loads != 1 {
		t.Fatalf("expected fallback to backend, loads = %d", base.loads)
	}
	if mr.Exists("board:cache") {
		got, _ := mr.Get("board:cache")
		if got == "{corrupt" {
			t.Fatal("corrupt entry not replaced")
		}
	}
}
