package domain

import (
	"strings"
	"time"
)

// Task is a content-bearing card owned by exactly one column.
type Task struct {
	ID        string
	ColumnID  string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskInput holds the values used to construct a task.
type TaskInput struct {
	ID       string
	ColumnID string
	Content  string
}

// NewTask constructs a task bound to a column.
func NewTask(in TaskInput, now time.Time) (Task, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.ColumnID = strings.TrimSpace(in.ColumnID)
	if in.ID == "" {
		return Task{}, ErrInvalidID
	}
	if in.ColumnID == "" {
		return Task{}, ErrInvalidColumnID
	}
	return Task{
		ID:        in.ID,
		ColumnID:  in.ColumnID,
		Content:   in.Content,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// EditContent replaces the task content.
func (t *Task) EditContent(content string, now time.Time) {
	t.Content = content
	t.UpdatedAt = now.UTC()
}

// AssignColumn moves the task to another column without touching its position.
func (t *Task) AssignColumn(columnID string, now time.Time) error {
	columnID = strings.TrimSpace(columnID)
	if columnID == "" {
		return ErrInvalidColumnID
	}
	t.ColumnID = columnID
	t.UpdatedAt = now.UTC()
	return nil
}
