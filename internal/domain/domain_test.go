package domain

import (
	"testing"
	"time"
)

func TestNewColumnValidation(t *testing.T) {
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	if _, err := NewColumn("  ", "To Do", now); err != ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	c, err := NewColumn(" c1 ", "", now)
	if err != nil {
		t.Fatalf("NewColumn() error = %v", err)
	}
	if c.ID != "c1" {
		t.Fatalf("unexpected column id %q", c.ID)
	}
	if c.Title != "" {
		t.Fatalf("expected empty title to be accepted, got %q", c.Title)
	}
}

func TestColumnRename(t *testing.T) {
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	c, err := NewColumn("c1", "Column 1", now)
	if err != nil {
		t.Fatalf("NewColumn() error = %v", err)
	}
	later := now.Add(time.Minute)
	c.Rename("  Doing  ", later)
	if c.Title != "  Doing  " {
		t.Fatalf("unexpected title %q", c.Title)
	}
	if !c.UpdatedAt.Equal(later) || !c.CreatedAt.Equal(now) {
		t.Fatalf("unexpected timestamps created=%v updated=%v", c.CreatedAt, c.UpdatedAt)
	}
}

func TestNewTaskValidation(t *testing.T) {
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	if _, err := NewTask(TaskInput{ColumnID: "c1"}, now); err != ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := NewTask(TaskInput{ID: "t1"}, now); err != ErrInvalidColumnID {
		t.Fatalf("expected ErrInvalidColumnID, got %v", err)
	}
	task, err := NewTask(TaskInput{ID: "t1", ColumnID: "c1", Content: "Task 1"}, now)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	if task.Content != "Task 1" || task.ColumnID != "c1" {
		t.Fatalf("unexpected task %#v", task)
	}
}

func TestTaskMutations(t *testing.T) {
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	task, err := NewTask(TaskInput{ID: "t1", ColumnID: "c1"}, now)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	task.EditContent("write docs", now.Add(time.Minute))
	if task.Content != "write docs" {
		t.Fatalf("unexpected content %q", task.Content)
	}
	if err := task.AssignColumn(" ", now); err != ErrInvalidColumnID {
		t.Fatalf("expected ErrInvalidColumnID, got %v", err)
	}
	if err := task.AssignColumn("c2", now.Add(2*time.Minute)); err != nil {
		t.Fatalf("AssignColumn() error = %v", err)
	}
	if task.ColumnID != "c2" {
		t.Fatalf("unexpected column id %q", task.ColumnID)
	}
}

func TestChangeEventNormalization(t *testing.T) {
	if got := NormalizeEntityType(" Task "); got != EntityTypeTask {
		t.Fatalf("NormalizeEntityType() = %q", got)
	}
	if IsValidEntityType("project") {
		t.Fatal("expected project to be rejected")
	}
	cases := map[string]ChangeOperation{
		"create":  ChangeOperationCreate,
		" MOVE ":  ChangeOperationMove,
		"delete":  ChangeOperationDelete,
		"update":  ChangeOperationUpdate,
		"unknown": ChangeOperationUpdate,
	}
	for raw, want := range cases {
		if got := NormalizeChangeOperation(raw); got != want {
			t.Fatalf("NormalizeChangeOperation(%q) = %q, want %q", raw, got, want)
		}
	}
}
