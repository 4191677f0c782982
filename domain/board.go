package domain

import "time"

// Task represents a single board item.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Column is a named ordered list of task references. The order of TaskIDs is
// the display and processing order within the column.
type Column struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	TaskIDs []string `json:"taskIds"`
}

// HistoryEntry records a structural board mutation in human-readable form.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// Board is the complete persisted state: tasks, columns, column order and the
// bounded mutation history. It is read, mutated and written as a whole.
type Board struct {
	Tasks       map[string]*Task   `json:"tasks"`
	Columns     map[string]*Column `json:"columns"`
	ColumnOrder []string           `json:"columnOrder"`
	History     []HistoryEntry     `json:"history"`
}

// FirstColumn returns the column new tasks are appended to, or nil when the
// board has no columns.
func (b *Board) FirstColumn() *Column {
	if len(b.ColumnOrder) == 0 {
		return nil
	}
	return b.Columns[b.ColumnOrder[0]]
}

// ColumnTasks resolves a column's task ids to tasks, skipping ids that no
// longer exist in the task map. Readers must tolerate transient dangling ids.
func (b *Board) ColumnTasks(columnID string) []*Task {
	col, ok := b.Columns[columnID]
	if !ok {
		return nil
	}
	tasks := make([]*Task, 0, len(col.TaskIDs))
	for _, id := range col.TaskIDs {
		if t, ok := b.Tasks[id]; ok {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// SeedBoard builds the initial board persisted on first run: three fixed
// columns with a single welcome task in the first one and an empty history.
func SeedBoard(now time.Time) *Board {
	welcome := &Task{
		ID:          "task-1",
		Title:       "Welcome to your board!",
		Description: "Try creating, editing, and dragging tasks between columns.",
		CreatedAt:   now,
	}
	return &Board{
		Tasks: map[string]*Task{welcome.ID: welcome},
		Columns: map[string]*Column{
			"column-1": {ID: "column-1", Title: "To Do", TaskIDs: []string{welcome.ID}},
			"column-2": {ID: "column-2", Title: "In Progress", TaskIDs: []string{}},
			"column-3": {ID: "column-3", Title: "Done", TaskIDs: []string{}},
		},
		ColumnOrder: []string{"column-1", "column-2", "column-3"},
		History:     []HistoryEntry{},
	}
}
