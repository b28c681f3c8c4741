// Package service provides business-logic services for the note server,
// delegating persistence to repository interfaces.
package service

import (
	"context"

	"github.com/atinyakov/NoteKeeper/internal/models"
)

// NotesRepository defines the persistence operations needed by the NotesService.
type NotesRepository interface {
	// List returns all live notes, newest-created-first.
	List(ctx context.Context) ([]models.ServerNote, error)
	// Insert stores a new note and returns the server-assigned identifier.
	Insert(ctx context.Context, note models.ServerNote) (int64, error)
	// Update replaces title and tags of a live note; the bool result
	// reports whether the note existed.
	Update(ctx context.Context, id int64, title string, tags []string) (bool, error)
	// Delete removes a live note; the bool result reports whether it existed.
	Delete(ctx context.Context, id int64) (bool, error)
}

// NotesService implements the note server's business logic.
type NotesService struct {
	// repo is the underlying persistence repository.
	repo NotesRepository
}

// NewNotesService constructs a NotesService with the provided NotesRepository.
func NewNotesService(repo NotesRepository) *NotesService {
	return &NotesService{repo: repo}
}

// List returns all live notes, newest-created-first.
func (s *NotesService) List(ctx context.Context) ([]models.ServerNote, error) {
	return s.repo.List(ctx)
}

// Create validates and stores a new note, returning the server-assigned
// identifier. A payload without a title or without the localId
// correlation value is rejected with models.ErrInvalidNote.
func (s *NotesService) Create(ctx context.Context, note models.ServerNote) (int64, error) {
	if note.Title == "" || note.LocalID == "" {
		return 0, models.ErrInvalidNote
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}
	return s.repo.Insert(ctx, note)
}

// Update replaces title and tags of the note with the given identifier.
// Returns models.ErrNoteNotFound when the note does not exist.
func (s *NotesService) Update(ctx context.Context, id int64, title string, tags []string) error {
	if title == "" {
		return models.ErrInvalidNote
	}
	if tags == nil {
		tags = []string{}
	}
	found, err := s.repo.Update(ctx, id, title, tags)
	if err != nil {
		return err
	}
	if !found {
		return models.ErrNoteNotFound
	}
	return nil
}

// Delete removes the note with the given identifier. Returns
// models.ErrNoteNotFound when the note does not exist.
func (s *NotesService) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return models.ErrNoteNotFound
	}
	return nil
}
