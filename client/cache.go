package client

import (
	"context"
	"strings"
	"sync"

	"slate-api/domain"
)

// moveState tracks the optimistic move protocol: a move is applied locally,
// then either confirmed by the server (local state is kept) or reverted by
// re-fetching the authoritative board.
type moveState int

const (
	moveIdle moveState = iota
	moveApplied
	moveConfirmed
	moveReverting
)

// Fallback error messages used when a failure carries no message of its own.
const (
	failedFetch  = "Failed to fetch board"
	failedCreate = "Failed to create task"
	failedUpdate = "Failed to update task"
	failedDelete = "Failed to delete task"
	failedMove   = "Failed to move task"
)

// remote is the subset of the API client the cache depends on.
type remote interface {
	FetchBoard(ctx context.Context) (*domain.Board, error)
	CreateTask(ctx context.Context, title, description string) (*domain.Task, error)
	UpdateTask(ctx context.Context, id, title string, description *string) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	MoveTask(ctx context.Context, id, sourceColumnID, destColumnID string, sourceIndex, destIndex int) error
}

// Cache mirrors the server-side board locally. Every mutation goes through
// the remote API; moves are applied optimistically before the round trip and
// rolled back by re-syncing when the server rejects them.
//
// The mutex guards the cached state only and is never held across network
// calls, so overlapping operations race exactly as independent requests do:
// each optimistic apply computes against whatever local state exists at that
// moment and responses settle in arrival order.
type Cache struct {
	mu      sync.Mutex
	api     remote
	board   *domain.Board
	loading bool
	errMsg  string
	filter  string
	move    moveState
}

// NewCache creates a cache over the given API client.
func NewCache(api remote) *Cache {
	return &Cache{api: api}
}

// Board returns the current local board document, or nil before the first
// successful fetch.
func (c *Cache) Board() *domain.Board {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board
}

// Loading reports whether a board fetch is in flight.
func (c *Cache) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Error returns the last failure message, or the empty string.
func (c *Cache) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Filter returns the current task filter text.
func (c *Cache) Filter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// SetFilter replaces the task filter text. Purely local.
func (c *Cache) SetFilter(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = text
}

// ClearError resets the failure message. Purely local.
func (c *Cache) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = ""
}

// FetchBoard replaces the local board with the server's latest. On failure
// the previous board, if any, stays visible alongside the error message.
func (c *Cache) FetchBoard(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()

	b, err := c.api.FetchBoard(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.errMsg = normalizeError(err, failedFetch)
		return err
	}
	c.board = b
	return nil
}

// CreateTask creates a task remotely and re-fetches the whole board.
func (c *Cache) CreateTask(ctx context.Context, title, description string) error {
	if _, err := c.api.CreateTask(ctx, title, description); err != nil {
		c.setError(normalizeError(err, failedCreate))
		return err
	}
	return c.FetchBoard(ctx)
}

// UpdateTask updates a task remotely and re-fetches the whole board.
func (c *Cache) UpdateTask(ctx context.Context, id, title string, description *string) error {
	if _, err := c.api.UpdateTask(ctx, id, title, description); err != nil {
		c.setError(normalizeError(err, failedUpdate))
		return err
	}
	return c.FetchBoard(ctx)
}

// DeleteTask deletes a task remotely and re-fetches the whole board.
func (c *Cache) DeleteTask(ctx context.Context, id string) error {
	if err := c.api.DeleteTask(ctx, id); err != nil {
		c.setError(normalizeError(err, failedDelete))
		return err
	}
	return c.FetchBoard(ctx)
}

// MoveTask applies the move locally before issuing the remote request, so the
// UI reflects the intent immediately. A confirmed move keeps the local state
// without re-fetching; a rejected one reverts by re-syncing the authoritative
// board. The remote request is issued even when no board is cached yet.
func (c *Cache) MoveTask(ctx context.Context, taskID, sourceColumnID, destColumnID string, sourceIndex, destIndex int) error {
	if sourceColumnID == destColumnID && sourceIndex == destIndex {
		return nil
	}

	c.mu.Lock()
	if c.board != nil {
		c.board = applyMove(c.board, taskID, sourceColumnID, destColumnID, sourceIndex, destIndex)
		c.move = moveApplied
	}
	c.mu.Unlock()

	err := c.api.MoveTask(ctx, taskID, sourceColumnID, destColumnID, sourceIndex, destIndex)
	if err == nil {
		c.mu.Lock()
		if c.move == moveApplied {
			c.move = moveConfirmed
		}
		c.mu.Unlock()
		return nil
	}

	c.mu.Lock()
	c.errMsg = normalizeError(err, failedMove)
	c.move = moveReverting
	c.mu.Unlock()

	if b, fetchErr := c.api.FetchBoard(ctx); fetchErr == nil {
		c.mu.Lock()
		c.board = b
		c.mu.Unlock()
	}

	c.mu.Lock()
	c.move = moveIdle
	c.mu.Unlock()
	return err
}

// VisibleTasks resolves a column's tasks, dropping dangling ids and applying
// the current filter text against title and description.
func (c *Cache) VisibleTasks(columnID string) []*domain.Task {
	c.mu.Lock()
	board := c.board
	filter := strings.ToLower(strings.TrimSpace(c.filter))
	c.mu.Unlock()

	if board == nil {
		return nil
	}
	tasks := board.ColumnTasks(columnID)
	if filter == "" {
		return tasks
	}
	out := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), filter) ||
			strings.Contains(strings.ToLower(t.Description), filter) {
			out = append(out, t)
		}
	}
	return out
}

func (c *Cache) setError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = msg
}

func (c *Cache) currentMoveState() moveState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.move
}

// applyMove clones the columns map and the two affected columns so prior
// board snapshots stay intact and remain distinguishable by identity.
func applyMove(b *domain.Board, taskID, sourceColumnID, destColumnID string, sourceIndex, destIndex int) *domain.Board {
	source, okSrc := b.Columns[sourceColumnID]
	dest, okDst := b.Columns[destColumnID]
	if !okSrc || !okDst {
		return b
	}
	newSource, newDest := domain.Move(*source, *dest, taskID, sourceIndex, destIndex)
	columns := make(map[string]*domain.Column, len(b.Columns))
	for id, col := range b.Columns {
		columns[id] = col
	}
	columns[sourceColumnID] = &newSource
	columns[destColumnID] = &newDest
	next := *b
	next.Columns = columns
	return &next
}

func normalizeError(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}
