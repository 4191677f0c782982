package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type fakeStore struct {
	board     *Board
	loadErr   error
	saveErr   error
	loadCount int
	saveCount int
}

func (f *fakeStore) LoadBoard(ctx context.Context) (*Board, error) {
	f.loadCount++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.board == nil {
		f.board = SeedBoard(time.Unix(0, 0))
	}
	return f.board, nil
}

func (f *fakeStore) SaveBoard(ctx context.Context, b *Board) error {
	f.saveCount++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.board = b
	return nil
}

var errStorageDown = errors.New("storage down")

// testBoard builds a two-column board used across service tests.
func testBoard() *Board {
	t1 := &Task{ID: "task-1", Title: "First", CreatedAt: time.Unix(1, 0)}
	t2 := &Task{ID: "task-2", Title: "Second", CreatedAt: time.Unix(2, 0)}
	return &Board{
		Tasks: map[string]*Task{"task-1": t1, "task-2": t2},
		Columns: map[string]*Column{
			"column-1": {ID: "column-1", Title: "To Do", TaskIDs: []string{"task-1"}},
			"column-2": {ID: "column-2", Title: "Done", TaskIDs: []string{"task-2"}},
		},
		ColumnOrder: []string{"column-1", "column-2"},
		History:     []HistoryEntry{},
	}
}

// newTestService returns a service with deterministic ids and clock.
func newTestService(st DocumentStorage) *BoardService {
	s := NewBoardService(st)
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	base := time.Unix(100, 0)
	s.now = func() time.Time {
		base = base.Add(time.Second)
		return base
	}
	return s
}
