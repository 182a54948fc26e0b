package app

import (
	"github.com/hylla/dragboard/internal/domain"
	"github.com/hylla/dragboard/internal/reorder"
)

// Snapshot is a read-only copy of the board at one point in time.
type Snapshot struct {
	Columns []domain.Column
	Tasks   []domain.Task
}

// Change pairs one applied command with the board state it produced.
type Change struct {
	Event    domain.ChangeEvent
	Snapshot Snapshot
}

// TasksForColumn returns the column's tasks in display order.
func (s Snapshot) TasksForColumn(columnID string) []domain.Task {
	return reorder.FilterGroup(s.Tasks, columnID, taskColumnID)
}

// ColumnTasks groups every task by column in one pass, preserving display order.
// Columns without tasks map to an empty slice.
func (s Snapshot) ColumnTasks() map[string][]domain.Task {
	out := make(map[string][]domain.Task, len(s.Columns))
	for _, column := range s.Columns {
		out[column.ID] = []domain.Task{}
	}
	for _, task := range s.Tasks {
		if _, ok := out[task.ColumnID]; !ok {
			continue
		}
		out[task.ColumnID] = append(out[task.ColumnID], task)
	}
	return out
}

// Column returns the column with the given id.
func (s Snapshot) Column(columnID string) (domain.Column, bool) {
	idx := reorder.IndexOf(s.Columns, columnID, columnKey)
	if idx < 0 {
		return domain.Column{}, false
	}
	return s.Columns[idx], true
}

// Task returns the task with the given id.
func (s Snapshot) Task(taskID string) (domain.Task, bool) {
	idx := reorder.IndexOf(s.Tasks, taskID, taskKey)
	if idx < 0 {
		return domain.Task{}, false
	}
	return s.Tasks[idx], true
}

// DanglingTasks lists tasks whose column is not on the board.
func (s Snapshot) DanglingTasks() []domain.Task {
	known := make(map[string]struct{}, len(s.Columns))
	for _, column := range s.Columns {
		known[column.ID] = struct{}{}
	}
	out := []domain.Task{}
	for _, task := range s.Tasks {
		if _, ok := known[task.ColumnID]; !ok {
			out = append(out, task)
		}
	}
	return out
}
