package app

import (
	"context"
	"time"

	"github.com/hylla/dragboard/internal/domain"
)

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Listener receives one Change after every command that mutated the board.
type Listener func(Change)

// ChangeEventStore persists activity events for the running session.
type ChangeEventStore interface {
	RecordChangeEvent(context.Context, domain.ChangeEvent) (domain.ChangeEvent, error)
	ListChangeEvents(context.Context, int) ([]domain.ChangeEvent, error)
	GetChangeEvent(context.Context, int64) (domain.ChangeEvent, error)
}
