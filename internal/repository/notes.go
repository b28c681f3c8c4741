// Package repository provides persistence implementations for the note
// service using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/atinyakov/NoteKeeper/internal/models"
)

// PostgresNotesRepository implements note persistence against a
// PostgreSQL database. Deletion is a soft delete so a background cleaner
// can drop old rows later.
type PostgresNotesRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresNotesRepository creates a new PostgresNotesRepository using
// the provided *sql.DB. db must be a valid connection to a PostgreSQL
// instance.
func NewPostgresNotesRepository(db *sql.DB) *PostgresNotesRepository {
	return &PostgresNotesRepository{DB: db}
}

// List fetches all live notes, newest-created-first. Ties on creation
// time break on the identifier so the order is deterministic.
func (r *PostgresNotesRepository) List(ctx context.Context) ([]models.ServerNote, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, local_id, title, tags, created_at FROM notes
		WHERE deleted = false
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []models.ServerNote
	for rows.Next() {
		var n models.ServerNote
		if err := rows.Scan(&n.RemoteID, &n.LocalID, &n.Title, pq.Array(&n.Tags), &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if n.Tags == nil {
			n.Tags = []string{}
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Insert stores a new note and returns the server-assigned identifier.
func (r *PostgresNotesRepository) Insert(ctx context.Context, note models.ServerNote) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO notes (local_id, title, tags, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, note.LocalID, note.Title, pq.Array(note.Tags), note.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert note: %w", err)
	}
	return id, nil
}

// Update replaces title and tags of a live note. The bool result reports
// whether the note existed.
func (r *PostgresNotesRepository) Update(ctx context.Context, id int64, title string, tags []string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE notes SET title = $1, tags = $2
		WHERE id = $3 AND deleted = false
	`, title, pq.Array(tags), id)
	if err != nil {
		return false, fmt.Errorf("update note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update note: %w", err)
	}
	return n > 0, nil
}

// Delete soft-deletes a note. The bool result reports whether a live
// note with the given identifier existed.
func (r *PostgresNotesRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE notes SET deleted = true, deleted_at = now()
		WHERE id = $1 AND deleted = false
	`, id)
	if err != nil {
		return false, fmt.Errorf("delete note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete note: %w", err)
	}
	return n > 0, nil
}
