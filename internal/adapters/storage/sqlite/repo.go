package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hylla/dragboard/internal/app"
	"github.com/hylla/dragboard/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// defaultListLimit caps ListChangeEvents when the caller passes a non-positive limit.
const defaultListLimit = 50

// Repository stores the session activity ledger.
type Repository struct {
	db *sql.DB
}

var _ app.ChangeEventStore = (*Repository)(nil)

// OpenInMemory opens a private in-memory ledger.
// Each call gets its own named database, so two repositories never share rows.
func OpenInMemory() (*Repository, error) {
	return openDSN(memoryDSN(uuid.NewString()))
}

// memoryDSN returns a shared-cache DSN scoped to one database name.
func memoryDSN(name string) string {
	return fmt.Sprintf("file:dragboard-%s?mode=memory&cache=shared", name)
}

// openDSN opens and migrates one database.
func openDSN(dsn string) (*Repository, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// A named memory database lives as long as one connection holds it open.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the database; the in-memory ledger is discarded.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate creates the ledger schema.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS change_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			entity_type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			operation TEXT NOT NULL,
			metadata_json TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_change_events_entity ON change_events(entity_type, entity_id, id DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// RecordChangeEvent appends one event and returns it with its assigned id.
func (r *Repository) RecordChangeEvent(ctx context.Context, event domain.ChangeEvent) (domain.ChangeEvent, error) {
	event.EntityType = domain.NormalizeEntityType(event.EntityType)
	if !domain.IsValidEntityType(event.EntityType) {
		return domain.ChangeEvent{}, fmt.Errorf("record change event entity_type %q: %w", event.EntityType, domain.ErrInvalidEntityType)
	}
	if strings.TrimSpace(event.EntityID) == "" {
		return domain.ChangeEvent{}, domain.ErrInvalidID
	}
	event.Operation = domain.NormalizeChangeOperation(string(event.Operation))
	event.OccurredAt = normalizeEventTS(event.OccurredAt)
	if event.Metadata == nil {
		event.Metadata = map[string]string{}
	}
	metadataJSON, err := json.Marshal(event.Metadata)
	if err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("encode change event metadata: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO change_events(entity_type, entity_id, operation, metadata_json, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		string(event.EntityType),
		event.EntityID,
		string(event.Operation),
		string(metadataJSON),
		ts(event.OccurredAt),
	)
	if err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("insert change event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("read change event id: %w", err)
	}
	event.ID = id
	return event, nil
}

// ListChangeEvents lists recent events, newest first.
func (r *Repository) ListChangeEvents(ctx context.Context, limit int) ([]domain.ChangeEvent, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, entity_type, entity_id, operation, metadata_json, created_at
		FROM change_events
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ChangeEvent, 0)
	for rows.Next() {
		event, err := scanChangeEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

// GetChangeEvent returns one event by id.
func (r *Repository) GetChangeEvent(ctx context.Context, id int64) (domain.ChangeEvent, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, entity_type, entity_id, operation, metadata_json, created_at
		FROM change_events
		WHERE id = ?
	`, id)
	return scanChangeEvent(row)
}

// CountChangeEvents reports how many events the ledger holds.
func (r *Repository) CountChangeEvents(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM change_events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count change events: %w", err)
	}
	return n, nil
}

// normalizeEventTS ensures event timestamps are always populated and UTC-normalized.
func normalizeEventTS(in time.Time) time.Time {
	if in.IsZero() {
		return time.Now().UTC()
	}
	return in.UTC()
}

// scanner represents scanner data used by this package.
type scanner interface {
	Scan(dest ...any) error
}

// scanChangeEvent decodes one change_events row.
func scanChangeEvent(s scanner) (domain.ChangeEvent, error) {
	var (
		event       domain.ChangeEvent
		entityRaw   string
		opRaw       string
		metadataRaw string
		createdRaw  string
	)
	if err := s.Scan(&event.ID, &entityRaw, &event.EntityID, &opRaw, &metadataRaw, &createdRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ChangeEvent{}, app.ErrNotFound
		}
		return domain.ChangeEvent{}, err
	}
	event.EntityType = domain.NormalizeEntityType(domain.EntityType(entityRaw))
	if !domain.IsValidEntityType(event.EntityType) {
		return domain.ChangeEvent{}, fmt.Errorf("decode change event entity_type %q: %w", entityRaw, domain.ErrInvalidEntityType)
	}
	event.Operation = domain.NormalizeChangeOperation(opRaw)
	event.OccurredAt = parseTS(createdRaw)
	if strings.TrimSpace(metadataRaw) == "" {
		metadataRaw = "{}"
	}
	if err := json.Unmarshal([]byte(metadataRaw), &event.Metadata); err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("decode change_events.metadata_json: %w", err)
	}
	if event.Metadata == nil {
		event.Metadata = map[string]string{}
	}
	return event, nil
}

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}
