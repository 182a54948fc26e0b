package tui

import (
	"github.com/hylla/dragboard/internal/app"
	"github.com/hylla/dragboard/internal/domain"
)

// dragKind identifies what is currently lifted.
type dragKind int

// dragNone and related constants define package defaults.
const (
	dragNone dragKind = iota
	dragTask
	dragColumn
)

// columnSlot marks the hovered column itself as the task drop target.
const columnSlot = -1

// dragState tracks one keyboard drag gesture from lift to drop.
type dragState struct {
	kind     dragKind
	sourceID string
	// overColumn indexes the hovered column.
	overColumn int
	// overTask indexes the hovered task within overColumn, or columnSlot.
	overTask int
}

// active reports whether something is lifted.
func (d dragState) active() bool {
	return d.kind != dragNone && d.sourceID != ""
}

// liftTask starts a task drag hovering the task's own position.
func (m *Model) liftTask(task domain.Task) {
	m.drag = dragState{
		kind:       dragTask,
		sourceID:   task.ID,
		overColumn: m.selectedColumn,
		overTask:   m.selectedTask,
	}
}

// liftColumn starts a column drag hovering the column's own position.
func (m *Model) liftColumn(column domain.Column) {
	m.drag = dragState{
		kind:       dragColumn,
		sourceID:   column.ID,
		overColumn: m.selectedColumn,
		overTask:   columnSlot,
	}
}

// moveDragTarget shifts the hovered target by whole columns or rows.
func (m *Model) moveDragTarget(dCol, dRow int) {
	if !m.drag.active() || len(m.snap.Columns) == 0 {
		return
	}
	if dCol != 0 {
		m.drag.overColumn = clamp(m.drag.overColumn+dCol, 0, len(m.snap.Columns)-1)
		m.drag.overTask = columnSlot
	}
	if m.drag.kind != dragTask || dRow == 0 {
		return
	}
	tasks := m.snap.TasksForColumn(m.snap.Columns[m.drag.overColumn].ID)
	m.drag.overTask = clamp(m.drag.overTask+dRow, columnSlot, len(tasks)-1)
}

// dropTarget describes what the lifted item is hovering.
func (m Model) dropTarget() app.DropTarget {
	if !m.drag.active() || m.drag.overColumn < 0 || m.drag.overColumn >= len(m.snap.Columns) {
		return app.DropTarget{}
	}
	column := m.snap.Columns[m.drag.overColumn]
	if m.drag.kind == dragColumn || m.drag.overTask == columnSlot {
		return app.DropTarget{Kind: app.TargetColumn, ID: column.ID}
	}
	tasks := m.snap.TasksForColumn(column.ID)
	if m.drag.overTask < 0 || m.drag.overTask >= len(tasks) {
		return app.DropTarget{Kind: app.TargetColumn, ID: column.ID}
	}
	return app.DropTarget{Kind: app.TargetTask, ID: tasks[m.drag.overTask].ID}
}

// pendingMove converts the current drag into the move a drop would apply.
func (m Model) pendingMove() (app.Move, bool) {
	if !m.drag.active() {
		return nil, false
	}
	target := m.dropTarget()
	if target.Kind == app.TargetNone {
		return nil, false
	}
	switch m.drag.kind {
	case dragColumn:
		return app.ColumnMove{ColumnID: m.drag.sourceID, OverColumnID: target.ID}, true
	case dragTask:
		return app.TaskMove{TaskID: m.drag.sourceID, Over: target}, true
	default:
		return nil, false
	}
}

// isDropTarget reports whether the rendered item is the hovered drop target.
func (m Model) isDropTarget(kind app.TargetKind, id string) bool {
	if !m.drag.active() {
		return false
	}
	target := m.dropTarget()
	return target.Kind == kind && target.ID == id
}
