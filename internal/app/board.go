package app

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hylla/dragboard/internal/domain"
	"github.com/hylla/dragboard/internal/reorder"
)

// Default title prefixes used when BoardConfig leaves them empty.
const (
	DefaultColumnTitlePrefix = "Column"
	DefaultTaskContentPrefix = "Task"
)

// BoardConfig holds configuration for a board.
type BoardConfig struct {
	ColumnTitlePrefix string
	TaskContentPrefix string
	Logger            *log.Logger
}

// Board owns the ordered column and task collections.
//
// Every command runs to completion before returning and reports whether it changed
// state. Unknown identifiers are ignored rather than reported as errors. A Board is
// not safe for concurrent use; callers serialize commands on one event loop.
type Board struct {
	columns []domain.Column
	tasks   []domain.Task

	idGen        IDGenerator
	clock        Clock
	columnPrefix string
	taskPrefix   string
	logger       *log.Logger

	listeners      []listenerEntry
	nextListenerID int
}

// listenerEntry pairs a listener with its unsubscribe handle.
type listenerEntry struct {
	id int
	fn Listener
}

// NewBoard constructs an empty board.
func NewBoard(idGen IDGenerator, clock Clock, cfg BoardConfig) *Board {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	if strings.TrimSpace(cfg.ColumnTitlePrefix) == "" {
		cfg.ColumnTitlePrefix = DefaultColumnTitlePrefix
	}
	if strings.TrimSpace(cfg.TaskContentPrefix) == "" {
		cfg.TaskContentPrefix = DefaultTaskContentPrefix
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Board{
		columns:      []domain.Column{},
		tasks:        []domain.Task{},
		idGen:        idGen,
		clock:        clock,
		columnPrefix: cfg.ColumnTitlePrefix,
		taskPrefix:   cfg.TaskContentPrefix,
		logger:       logger,
	}
}

// Subscribe registers a listener and returns a func that removes it.
func (b *Board) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	b.nextListenerID++
	id := b.nextListenerID
	b.listeners = append(b.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		b.listeners = slices.DeleteFunc(b.listeners, func(entry listenerEntry) bool {
			return entry.id == id
		})
	}
}

// Seed appends one column per title, in order.
func (b *Board) Seed(titles ...string) []domain.Column {
	out := make([]domain.Column, 0, len(titles))
	for _, title := range titles {
		column, ok := b.addColumn(title)
		if !ok {
			continue
		}
		out = append(out, column)
	}
	return out
}

// AddColumn appends a column with a generated title.
func (b *Board) AddColumn() (domain.Column, bool) {
	return b.addColumn(fmt.Sprintf("%s %d", b.columnPrefix, len(b.columns)+1))
}

// addColumn appends a column with the given title.
func (b *Board) addColumn(title string) (domain.Column, bool) {
	id := b.idGen()
	if b.columnIndex(id) >= 0 {
		b.ignored("add_column", "reason", "duplicate id", "column_id", id)
		return domain.Column{}, false
	}
	now := b.clock()
	column, err := domain.NewColumn(id, title, now)
	if err != nil {
		b.ignored("add_column", "reason", err.Error())
		return domain.Column{}, false
	}
	b.columns = append(slices.Clone(b.columns), column)
	b.applied(domain.ChangeEvent{
		EntityType: domain.EntityTypeColumn,
		EntityID:   column.ID,
		Operation:  domain.ChangeOperationCreate,
		Metadata: map[string]string{
			"title":    column.Title,
			"position": strconv.Itoa(len(b.columns) - 1),
		},
		OccurredAt: now.UTC(),
	})
	return column, true
}

// DeleteColumn removes the column and every task it owns.
func (b *Board) DeleteColumn(columnID string) bool {
	idx := b.columnIndex(columnID)
	if idx < 0 {
		b.ignored("delete_column", "reason", "column not found", "column_id", columnID)
		return false
	}
	columns := slices.Clone(b.columns)
	columns = slices.Delete(columns, idx, idx+1)
	tasks, removed := reorder.RemoveGroup(b.tasks, columnID, taskColumnID)
	b.columns = columns
	b.tasks = tasks
	b.applied(domain.ChangeEvent{
		EntityType: domain.EntityTypeColumn,
		EntityID:   columnID,
		Operation:  domain.ChangeOperationDelete,
		Metadata: map[string]string{
			"position":       strconv.Itoa(idx),
			"cascaded_tasks": strconv.Itoa(removed),
		},
		OccurredAt: b.clock().UTC(),
	})
	return true
}

// RenameColumn replaces the column title in place.
func (b *Board) RenameColumn(columnID, title string) bool {
	idx := b.columnIndex(columnID)
	if idx < 0 {
		b.ignored("rename_column", "reason", "column not found", "column_id", columnID)
		return false
	}
	if b.columns[idx].Title == title {
		return false
	}
	now := b.clock()
	columns := slices.Clone(b.columns)
	prev := columns[idx].Title
	columns[idx].Rename(title, now)
	b.columns = columns
	b.applied(domain.ChangeEvent{
		EntityType: domain.EntityTypeColumn,
		EntityID:   columnID,
		Operation:  domain.ChangeOperationUpdate,
		Metadata: map[string]string{
			"previous_title": prev,
			"title":          title,
		},
		OccurredAt: now.UTC(),
	})
	return true
}

// AddTask appends a task with generated content to an existing column.
func (b *Board) AddTask(columnID string) (domain.Task, bool) {
	if b.columnIndex(columnID) < 0 {
		b.ignored("add_task", "reason", "column not found", "column_id", columnID)
		return domain.Task{}, false
	}
	id := b.idGen()
	if b.taskIndex(id) >= 0 {
		b.ignored("add_task", "reason", "duplicate id", "task_id", id)
		return domain.Task{}, false
	}
	now := b.clock()
	task, err := domain.NewTask(domain.TaskInput{
		ID:       id,
		ColumnID: columnID,
		Content:  fmt.Sprintf("%s %d", b.taskPrefix, len(b.tasks)+1),
	}, now)
	if err != nil {
		b.ignored("add_task", "reason", err.Error(), "column_id", columnID)
		return domain.Task{}, false
	}
	b.tasks = append(slices.Clone(b.tasks), task)
	b.applied(domain.ChangeEvent{
		EntityType: domain.EntityTypeTask,
		EntityID:   task.ID,
		Operation:  domain.ChangeOperationCreate,
		Metadata: map[string]string{
			"column_id": columnID,
			"content":   task.Content,
		},
		OccurredAt: now.UTC(),
	})
	return task, true
}

// DeleteTask removes one task.
func (b *Board) DeleteTask(taskID string) bool {
	idx := b.taskIndex(taskID)
	if idx < 0 {
		b.ignored("delete_task", "reason", "task not found", "task_id", taskID)
		return false
	}
	columnID := b.tasks[idx].ColumnID
	tasks := slices.Clone(b.tasks)
	b.tasks = slices.Delete(tasks, idx, idx+1)
	b.applied(domain.ChangeEvent{
		EntityType: domain.EntityTypeTask,
		EntityID:   taskID,
		Operation:  domain.ChangeOperationDelete,
		Metadata: map[string]string{
			"column_id": columnID,
		},
		OccurredAt: b.clock().UTC(),
	})
	return true
}

// EditTaskContent replaces the content of one task.
func (b *Board) EditTaskContent(taskID, content string) bool {
	idx := b.taskIndex(taskID)
	if idx < 0 {
		b.ignored("edit_task", "reason", "task not found", "task_id", taskID)
		return false
	}
	if b.tasks[idx].Content == content {
		return false
	}
	now := b.clock()
	tasks := slices.Clone(b.tasks)
	tasks[idx].EditContent(content, now)
	b.tasks = tasks
	b.applied(domain.ChangeEvent{
		EntityType: domain.EntityTypeTask,
		EntityID:   taskID,
		Operation:  domain.ChangeOperationUpdate,
		Metadata: map[string]string{
			"content": content,
		},
		OccurredAt: now.UTC(),
	})
	return true
}

// MoveColumn moves the source column to the target column's position.
func (b *Board) MoveColumn(sourceID, targetID string) bool {
	if sourceID == targetID {
		return false
	}
	from := b.columnIndex(sourceID)
	to := b.columnIndex(targetID)
	if from < 0 || to < 0 {
		b.ignored("move_column", "reason", "column not found", "column_id", sourceID, "over_column_id", targetID)
		return false
	}
	columns, err := reorder.MoveElement(b.columns, from, to)
	if err != nil {
		b.ignored("move_column", "reason", err.Error(), "from", from, "to", to)
		return false
	}
	b.columns = columns
	b.applied(domain.ChangeEvent{
		EntityType: domain.EntityTypeColumn,
		EntityID:   sourceID,
		Operation:  domain.ChangeOperationMove,
		Metadata: map[string]string{
			"over_column_id": targetID,
			"from":           strconv.Itoa(from),
			"to":             strconv.Itoa(to),
		},
		OccurredAt: b.clock().UTC(),
	})
	return true
}

// MoveTaskBeforeTask moves the source task into the target task's column at the target's position.
//
// Within one column this is a plain array move to the target's former index. Across
// columns the source lands directly before the target, so the destination column
// shows source then target.
func (b *Board) MoveTaskBeforeTask(sourceTaskID, targetTaskID string) bool {
	if sourceTaskID == targetTaskID {
		return false
	}
	from := b.taskIndex(sourceTaskID)
	over := b.taskIndex(targetTaskID)
	if from < 0 || over < 0 {
		b.ignored("move_task", "reason", "task not found", "task_id", sourceTaskID, "over_task_id", targetTaskID)
		return false
	}
	source := b.tasks[from]
	target := b.tasks[over]
	to := over
	if source.ColumnID != target.ColumnID && from < over {
		to = over - 1
	}

	now := b.clock()
	tasks := slices.Clone(b.tasks)
	tasks[from] = reorder.ReassignGroup(source, target.ColumnID, assignColumnAt(now))
	tasks, err := reorder.MoveElement(tasks, from, to)
	if err != nil {
		b.ignored("move_task", "reason", err.Error(), "from", from, "to", to)
		return false
	}
	b.tasks = tasks
	b.applied(domain.ChangeEvent{
		EntityType: domain.EntityTypeTask,
		EntityID:   sourceTaskID,
		Operation:  domain.ChangeOperationMove,
		Metadata: map[string]string{
			"from_column_id": source.ColumnID,
			"to_column_id":   target.ColumnID,
			"over_task_id":   targetTaskID,
			"from":           strconv.Itoa(from),
			"to":             strconv.Itoa(to),
		},
		OccurredAt: now.UTC(),
	})
	return true
}

// MoveTaskIntoColumn reassigns the task to the target column without repositioning it.
func (b *Board) MoveTaskIntoColumn(sourceTaskID, targetColumnID string) bool {
	if sourceTaskID == targetColumnID {
		return false
	}
	idx := b.taskIndex(sourceTaskID)
	if idx < 0 {
		b.ignored("move_task_into_column", "reason", "task not found", "task_id", sourceTaskID)
		return false
	}
	if b.columnIndex(targetColumnID) < 0 {
		b.ignored("move_task_into_column", "reason", "column not found", "task_id", sourceTaskID, "column_id", targetColumnID)
		return false
	}
	source := b.tasks[idx]
	if source.ColumnID == targetColumnID {
		return false
	}
	now := b.clock()
	tasks := slices.Clone(b.tasks)
	tasks[idx] = reorder.ReassignGroup(source, targetColumnID, assignColumnAt(now))
	b.tasks = tasks
	b.applied(domain.ChangeEvent{
		EntityType: domain.EntityTypeTask,
		EntityID:   sourceTaskID,
		Operation:  domain.ChangeOperationMove,
		Metadata: map[string]string{
			"from_column_id": source.ColumnID,
			"to_column_id":   targetColumnID,
		},
		OccurredAt: now.UTC(),
	})
	return true
}

// Column returns the column with the given id.
func (b *Board) Column(columnID string) (domain.Column, bool) {
	idx := b.columnIndex(columnID)
	if idx < 0 {
		return domain.Column{}, false
	}
	return b.columns[idx], true
}

// Task returns the task with the given id.
func (b *Board) Task(taskID string) (domain.Task, bool) {
	idx := b.taskIndex(taskID)
	if idx < 0 {
		return domain.Task{}, false
	}
	return b.tasks[idx], true
}

// Snapshot returns a read-only copy of the current board.
func (b *Board) Snapshot() Snapshot {
	return Snapshot{
		Columns: slices.Clone(b.columns),
		Tasks:   slices.Clone(b.tasks),
	}
}

// columnIndex returns the index of the column id, or -1.
func (b *Board) columnIndex(columnID string) int {
	if strings.TrimSpace(columnID) == "" {
		return -1
	}
	return reorder.IndexOf(b.columns, columnID, columnKey)
}

// taskIndex returns the index of the task id, or -1.
func (b *Board) taskIndex(taskID string) int {
	if strings.TrimSpace(taskID) == "" {
		return -1
	}
	return reorder.IndexOf(b.tasks, taskID, taskKey)
}

// applied logs one mutation and notifies listeners.
func (b *Board) applied(event domain.ChangeEvent) {
	b.logger.Debug("board command applied",
		"entity", event.EntityType,
		"op", event.Operation,
		"id", event.EntityID,
		"columns", len(b.columns),
		"tasks", len(b.tasks),
	)
	if len(b.listeners) == 0 {
		return
	}
	change := Change{Event: event, Snapshot: b.Snapshot()}
	for _, entry := range slices.Clone(b.listeners) {
		entry.fn(change)
	}
}

// ignored logs one command that resolved to a no-op.
func (b *Board) ignored(op string, keyvals ...any) {
	b.logger.Debug("board command ignored", append([]any{"op", op}, keyvals...)...)
}

// assignColumnAt returns a group-assign func stamping the given time.
func assignColumnAt(now time.Time) func(*domain.Task, string) {
	return func(t *domain.Task, columnID string) {
		// The target column id always comes from a resolved column or task.
		_ = t.AssignColumn(columnID, now)
	}
}

// columnKey returns the lookup key of a column.
func columnKey(c domain.Column) string {
	return c.ID
}

// taskKey returns the lookup key of a task.
func taskKey(t domain.Task) string {
	return t.ID
}

// taskColumnID returns the group key of a task.
func taskColumnID(t domain.Task) string {
	return t.ColumnID
}
