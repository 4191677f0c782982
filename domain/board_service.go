package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// DocumentStorage persists the board as a whole document.
type DocumentStorage interface {
	LoadBoard(ctx context.Context) (*Board, error)
	SaveBoard(ctx context.Context, b *Board) error
}

// BoardService owns the authoritative board. Every mutation is a full
// load-current-document, compute-new-document, persist-whole-document cycle.
// The storage offers no locking, so concurrent mutations are last-write-wins.
type BoardService struct {
	st    DocumentStorage
	now   func() time.Time
	newID func() string
}

// NewBoardService creates a service over the given document storage.
func NewBoardService(st DocumentStorage) *BoardService {
	return &BoardService{st: st, now: time.Now, newID: uuid.NewString}
}

// GetBoard returns the full board document.
func (s *BoardService) GetBoard(ctx context.Context) (*Board, error) {
	return s.st.LoadBoard(ctx)
}

// GetHistory returns the bounded history, newest first.
func (s *BoardService) GetHistory(ctx context.Context) ([]HistoryEntry, error) {
	b, err := s.st.LoadBoard(ctx)
	if err != nil {
		return nil, err
	}
	return b.History, nil
}

// CreateTask allocates a new task and appends it to the end of the first
// column in the column order.
func (s *BoardService) CreateTask(ctx context.Context, title, description string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &ValidationError{Msg: "title is required"}
	}
	b, err := s.st.LoadBoard(ctx)
	if err != nil {
		return nil, err
	}
	task := &Task{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		CreatedAt:   s.now(),
	}
	b.Tasks[task.ID] = task
	if col := b.FirstColumn(); col != nil {
		col.TaskIDs = append(col.TaskIDs, task.ID)
	}
	s.record(b, fmt.Sprintf("Created task: %q", task.Title))
	if err := s.st.SaveBoard(ctx, b); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"task": task.ID, "title": task.Title}).Debug("task created")
	return task, nil
}

// UpdateTask applies the provided fields to an existing task. An empty title
// keeps the current one; a non-nil description replaces the current one even
// when it clears it to the empty string.
func (s *BoardService) UpdateTask(ctx context.Context, id, title string, description *string) (*Task, error) {
	b, err := s.st.LoadBoard(ctx)
	if err != nil {
		return nil, err
	}
	task, ok := b.Tasks[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	oldTitle := task.Title
	if t := strings.TrimSpace(title); t != "" {
		task.Title = t
	}
	if description != nil {
		task.Description = *description
	}
	s.record(b, fmt.Sprintf("Updated task: %q → %q", oldTitle, task.Title))
	if err := s.st.SaveBoard(ctx, b); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task and strips its id from every column. A well-formed
// board references it from at most one column; the sweep is defensive.
func (s *BoardService) DeleteTask(ctx context.Context, id string) error {
	b, err := s.st.LoadBoard(ctx)
	if err != nil {
		return err
	}
	task, ok := b.Tasks[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	delete(b.Tasks, id)
	for _, col := range b.Columns {
		col.TaskIDs = removeID(col.TaskIDs, id)
	}
	s.record(b, fmt.Sprintf("Deleted task: %q", task.Title))
	return s.st.SaveBoard(ctx, b)
}

// MoveTask relocates a task between or within columns. Cross-column moves are
// logged to the history; within-column reorders are not, keeping the log
// meaningful. Index bounds are left to the move computation's clamping.
// Task and column ids are validated even for a same-position move; only the
// persist and the history entry are skipped, so a stale client still gets the
// not-found signal it re-fetches on.
func (s *BoardService) MoveTask(ctx context.Context, id, sourceColumnID, destColumnID string, sourceIndex, destIndex int) error {
	b, err := s.st.LoadBoard(ctx)
	if err != nil {
		return err
	}
	task, ok := b.Tasks[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	source, ok := b.Columns[sourceColumnID]
	if !ok {
		return &InvalidColumnError{ID: sourceColumnID}
	}
	dest, ok := b.Columns[destColumnID]
	if !ok {
		return &InvalidColumnError{ID: destColumnID}
	}
	if sourceColumnID == destColumnID && sourceIndex == destIndex {
		return nil
	}
	newSource, newDest := Move(*source, *dest, id, sourceIndex, destIndex)
	b.Columns[sourceColumnID] = &newSource
	b.Columns[destColumnID] = &newDest
	if sourceColumnID != destColumnID {
		s.record(b, fmt.Sprintf("Moved %q from %s to %s", task.Title, source.Title, dest.Title))
	}
	return s.st.SaveBoard(ctx, b)
}

func (s *BoardService) record(b *Board, action string) {
	b.History = pushHistory(b.History, s.newID(), action, s.now())
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
