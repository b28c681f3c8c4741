// Package models defines the core data structures shared between the
// note client and the note server.
package models

import (
	"errors"
	"time"
)

// ErrNoteNotFound is returned when a note does not exist on the side
// that was asked for it (local store miss or remote 404).
var ErrNoteNotFound = errors.New("note not found")

// ErrEmptyTitle is returned when a note is created or edited with an
// empty title. Rejected locally, before any store interaction.
var ErrEmptyTitle = errors.New("note title must not be empty")

// ErrInvalidNote is returned by the server side when a payload lacks a
// required field (title, or the localId correlation value on insert).
var ErrInvalidNote = errors.New("invalid note payload")

// NoteState tags the lifecycle state of a locally stored note.
type NoteState string

const (
	// StateActive marks a live note visible to the user.
	StateActive NoteState = "active"
	// StatePendingDelete marks a tombstone: the user deleted the note
	// while its remote copy could not be reached, and the deletion has
	// not yet been confirmed against the server. Excluded from every
	// active-notes view; removed by the next reconcile pass.
	StatePendingDelete NoteState = "pending_delete"
)

// Note is the unit of data flowing through the system.
type Note struct {
	// LocalID is the client-generated identity of the note. Assigned
	// once at creation, immutable, and the LocalStore key. Never sent
	// to the server as an identifier, only as a correlation value.
	LocalID string `json:"localId"`
	// RemoteID is the server-assigned identifier. Zero means the note
	// has never been durably created on the server; once set it is the
	// join key between the local and remote stores.
	RemoteID int64 `json:"remoteId,omitempty"`
	// Title is user content.
	Title string `json:"title"`
	// Tags is user content; order is retained for display but equality
	// is order-independent.
	Tags []string `json:"tags,omitempty"`
	// CreatedAt is set once at creation and never mutated.
	CreatedAt time.Time `json:"createdAt"`
	// State distinguishes live notes from tombstones awaiting a remote
	// delete confirmation.
	State NoteState `json:"state"`
	// PendingEdit is true when the local title/tags are ahead of the
	// last known remote state for this note.
	PendingEdit bool `json:"pendingEdit,omitempty"`
}

// Synced reports whether the note has been durably created on the server.
func (n Note) Synced() bool {
	return n.RemoteID != 0
}

// ServerNote is the server-shaped projection of a note: the fields that
// cross the client/server boundary and nothing else. LocalID travels
// with it as a correlation value the server echoes back, so a creation
// that raced with a reconcile pass is never materialized twice.
type ServerNote struct {
	RemoteID  int64     `json:"id,omitempty"`
	LocalID   string    `json:"localId"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

// ServerNote builds the server-shaped projection of n.
func (n Note) ServerNote() ServerNote {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return ServerNote{
		RemoteID:  n.RemoteID,
		LocalID:   n.LocalID,
		Title:     n.Title,
		Tags:      tags,
		CreatedAt: n.CreatedAt,
	}
}
