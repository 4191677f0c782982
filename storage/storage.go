package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"slate-api/domain"
)

// Storage persists the board as a single pretty-printed JSON document under
// one Redis key. Every mutation rewrites the whole document.
type Storage struct {
	rdb *redis.Client
	key string
	now func() time.Time
}

// New creates a Redis-backed document store.
func New(client *redis.Client, key string) *Storage {
	if key == "" {
		key = "board"
	}
	return &Storage{rdb: client, key: key, now: time.Now}
}

// LoadBoard reads the current board document. When no document exists yet the
// seed board is created, persisted and returned.
func (s *Storage) LoadBoard(ctx context.Context) (*domain.Board, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		b := domain.SeedBoard(s.now())
		if err := s.SaveBoard(ctx, b); err != nil {
			return nil, err
		}
		return b, nil
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read", Err: err}
	}
	var b domain.Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, &domain.PersistenceError{Op: "read", Err: err}
	}
	return &b, nil
}

// SaveBoard replaces the persisted board document.
func (s *Storage) SaveBoard(ctx context.Context, b *domain.Board) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return &domain.PersistenceError{Op: "write", Err: err}
	}
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return &domain.PersistenceError{Op: "write", Err: err}
	}
	return nil
}
