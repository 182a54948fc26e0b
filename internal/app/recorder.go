package app

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

// NewRecorder returns a listener that appends every change event to the store.
// Store failures are logged and never undo the board mutation.
func NewRecorder(ctx context.Context, store ChangeEventStore, logger *log.Logger) Listener {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return func(change Change) {
		if store == nil {
			return
		}
		recorded, err := store.RecordChangeEvent(ctx, change.Event)
		if err != nil {
			logger.Warn("activity record failed",
				"entity", change.Event.EntityType,
				"op", change.Event.Operation,
				"id", change.Event.EntityID,
				"err", err,
			)
			return
		}
		logger.Debug("activity recorded", "event_id", recorded.ID, "op", recorded.Operation)
	}
}
