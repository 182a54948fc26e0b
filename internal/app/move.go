package app

// Move is a drop instruction produced by a completed drag gesture.
// The concrete variants are ColumnMove and TaskMove.
type Move interface {
	isMove()
}

// ColumnMove drops a column onto another column's position.
type ColumnMove struct {
	ColumnID     string
	OverColumnID string
}

// TaskMove drops a task onto another task or onto a column.
type TaskMove struct {
	TaskID string
	Over   DropTarget
}

// TargetKind discriminates what a task was dropped onto.
type TargetKind int

// TargetKind values.
const (
	TargetNone TargetKind = iota
	TargetTask
	TargetColumn
)

// String returns the target kind label.
func (k TargetKind) String() string {
	switch k {
	case TargetTask:
		return "task"
	case TargetColumn:
		return "column"
	default:
		return "none"
	}
}

// DropTarget identifies the item under a dragged task.
type DropTarget struct {
	Kind TargetKind
	ID   string
}

func (ColumnMove) isMove() {}
func (TaskMove) isMove()   {}

// Apply dispatches a move to the matching command and reports whether the board changed.
func (b *Board) Apply(m Move) bool {
	switch mv := m.(type) {
	case ColumnMove:
		return b.MoveColumn(mv.ColumnID, mv.OverColumnID)
	case TaskMove:
		switch mv.Over.Kind {
		case TargetTask:
			return b.MoveTaskBeforeTask(mv.TaskID, mv.Over.ID)
		case TargetColumn:
			return b.MoveTaskIntoColumn(mv.TaskID, mv.Over.ID)
		default:
			b.ignored("apply", "reason", "task move without target", "task_id", mv.TaskID)
			return false
		}
	default:
		b.ignored("apply", "reason", "unsupported move")
		return false
	}
}
