package domain

import (
	"strings"
	"time"
)

// EntityType identifies which collection a change event refers to.
type EntityType string

// EntityType values recorded by the activity ledger.
const (
	EntityTypeColumn EntityType = "column"
	EntityTypeTask   EntityType = "task"
)

// ChangeOperation describes one applied board command.
type ChangeOperation string

// ChangeOperation values used by the activity ledger.
const (
	ChangeOperationCreate ChangeOperation = "create"
	ChangeOperationUpdate ChangeOperation = "update"
	ChangeOperationMove   ChangeOperation = "move"
	ChangeOperationDelete ChangeOperation = "delete"
)

// ChangeEvent represents a single activity-log entry for a column or task.
type ChangeEvent struct {
	ID         int64
	EntityType EntityType
	EntityID   string
	Operation  ChangeOperation
	Metadata   map[string]string
	OccurredAt time.Time
}

// NormalizeEntityType canonicalizes a persisted entity type value.
func NormalizeEntityType(raw EntityType) EntityType {
	return EntityType(strings.TrimSpace(strings.ToLower(string(raw))))
}

// IsValidEntityType reports whether the entity type is supported.
func IsValidEntityType(t EntityType) bool {
	switch t {
	case EntityTypeColumn, EntityTypeTask:
		return true
	default:
		return false
	}
}

// NormalizeChangeOperation canonicalizes persisted operation values; unknown values map to update.
func NormalizeChangeOperation(raw string) ChangeOperation {
	switch ChangeOperation(strings.TrimSpace(strings.ToLower(raw))) {
	case ChangeOperationCreate:
		return ChangeOperationCreate
	case ChangeOperationMove:
		return ChangeOperationMove
	case ChangeOperationDelete:
		return ChangeOperationDelete
	default:
		return ChangeOperationUpdate
	}
}
