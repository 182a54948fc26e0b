package domain

import (
	"strings"
	"time"
)

// Column is one ordered container of tasks on the board.
type Column struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewColumn constructs a column. Titles are free-form; only the id is validated.
func NewColumn(id, title string, now time.Time) (Column, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Column{}, ErrInvalidID
	}
	return Column{
		ID:        id,
		Title:     title,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// Rename replaces the column title.
func (c *Column) Rename(title string, now time.Time) {
	c.Title = title
	c.UpdatedAt = now.UTC()
}
