package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_note_store.go -package=mocks notequiz/internal/storage NoteStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// NoteStore defines the interface for note registry operations.
type NoteStore interface {
	// Upsert inserts a new note or updates an existing one by id.
	Upsert(ctx context.Context, note *NoteRecord) error
	// GetByID gets a note by id. Returns nil and ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*NoteRecord, error)
	// ListAll returns every registered note ordered by most recently updated.
	ListAll(ctx context.Context) ([]*NoteRecord, error)
	// Delete removes a note by id. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id string) error
}

// NoteRepo provides methods for note registry operations.
// It implements the NoteStore interface.
type NoteRepo struct {
	db *sql.DB
}

// NewNoteRepo creates a new NoteRepo.
func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

// Upsert inserts a new note or updates an existing one by id, refreshing
// name, chunk_count, and updated_at.
func (r *NoteRepo) Upsert(ctx context.Context, note *NoteRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (id, name, chunk_count, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (id) DO UPDATE SET
		 name = excluded.name, chunk_count = excluded.chunk_count, updated_at = CURRENT_TIMESTAMP`,
		note.ID, note.Name, note.ChunkCount,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert note: %w", err)
	}

	return nil
}

// GetByID gets a note by id. Returns nil and ErrNotFound if not found.
func (r *NoteRepo) GetByID(ctx context.Context, id string) (*NoteRecord, error) {
	var note NoteRecord
	var updatedAtStr string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, chunk_count, updated_at FROM notes WHERE id = ?",
		id,
	).Scan(&note.ID, &note.Name, &note.ChunkCount, &updatedAtStr)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query note: %w", err)
	}

	note.UpdatedAt, err = parseTimestamp(updatedAtStr)
	if err != nil {
		return nil, err
	}

	return &note, nil
}

// ListAll returns every registered note ordered by most recently updated.
func (r *NoteRepo) ListAll(ctx context.Context) ([]*NoteRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, chunk_count, updated_at FROM notes ORDER BY updated_at DESC, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*NoteRecord
	for rows.Next() {
		var note NoteRecord
		var updatedAtStr string

		if err := rows.Scan(&note.ID, &note.Name, &note.ChunkCount, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}

		note.UpdatedAt, err = parseTimestamp(updatedAtStr)
		if err != nil {
			return nil, err
		}

		notes = append(notes, &note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}

	return notes, nil
}

// Delete removes a note by id. Deleting an unknown id is a no-op.
func (r *NoteRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}

// parseTimestamp handles both DATETIME formats SQLite may return.
func parseTimestamp(s string) (time.Time, error) {
	ts, err := time.Parse("2006-01-02 15:04:05", s)
	if err == nil {
		return ts, nil
	}
	ts, err = time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse updated_at timestamp: %w", err)
	}
	return ts, nil
}
