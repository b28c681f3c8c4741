// Package http provides HTTP handlers for the note server API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/NoteKeeper/internal/models"
)

// NotesService defines the interface for note operations required by the
// NotesHandler.
type NotesService interface {
	// List returns all live notes, newest-created-first.
	List(ctx context.Context) ([]models.ServerNote, error)
	// Create validates and stores a new note, returning the
	// server-assigned identifier. Invalid payloads fail with
	// models.ErrInvalidNote.
	Create(ctx context.Context, note models.ServerNote) (int64, error)
	// Update replaces title and tags; models.ErrNoteNotFound when absent.
	Update(ctx context.Context, id int64, title string, tags []string) error
	// Delete removes a note; models.ErrNoteNotFound when absent.
	Delete(ctx context.Context, id int64) error
}

// NotesHandler handles HTTP requests for notes.
type NotesHandler struct {
	NotesService NotesService
}

// List handles GET /api/notes requests, writing all live notes as a JSON
// array ordered newest-created-first.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.NotesService.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if notes == nil {
		notes = []models.ServerNote{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(notes)
}

// Create handles POST /api/notes requests. It decodes a server-shaped
// note, stores it, and responds with the assigned identifier as
// {"insertedId": n}.
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var note models.ServerNote
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	id, err := h.NotesService.Create(r.Context(), note)
	if err != nil {
		if errors.Is(err, models.ErrInvalidNote) {
			http.Error(w, "invalid note data", http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int64{"insertedId": id})
}

// Update handles PUT /api/notes/{id} requests. It decodes a body with
// "title" and optional "tags" and replaces the note's content. Responds
// 404 when the note does not exist.
func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := noteID(r)
	if err != nil {
		http.Error(w, "invalid note id", http.StatusBadRequest)
		return
	}

	var body struct {
		Title string   `json:"title"`
		Tags  []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	switch err := h.NotesService.Update(r.Context(), id, body.Title, body.Tags); {
	case err == nil:
		w.WriteHeader(http.StatusOK)
	case errors.Is(err, models.ErrNoteNotFound):
		http.Error(w, "note not found", http.StatusNotFound)
	case errors.Is(err, models.ErrInvalidNote):
		http.Error(w, "invalid note data", http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Delete handles DELETE /api/notes/{id} requests. Responds 404 when the
// note does not exist.
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := noteID(r)
	if err != nil {
		http.Error(w, "invalid note id", http.StatusBadRequest)
		return
	}

	switch err := h.NotesService.Delete(r.Context(), id); {
	case err == nil:
		w.WriteHeader(http.StatusOK)
	case errors.Is(err, models.ErrNoteNotFound):
		http.Error(w, "note not found", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// noteID parses the {id} URL parameter.
func noteID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
