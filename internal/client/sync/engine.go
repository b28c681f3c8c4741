// Package sync implements the offline-first reconciliation engine that
// keeps the client's local note store and the server consistent across
// intermittent connectivity.
//
// Create, Edit and Delete always mutate the local store synchronously and
// opportunistically attempt the matching remote call. Reconcile performs a
// full ordered pass that retries pending creations, edits and deletions
// and merges remote truth back into the local store.
package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/NoteKeeper/internal/models"
)

// LocalStore defines the client-side persistence operations the engine
// needs. Implementations must make each call atomic at the single-note
// granularity.
type LocalStore interface {
	// Get returns the note with the given LocalID, or nil if absent.
	Get(localID string) (*models.Note, error)
	// List returns all stored notes, tombstones included, in insertion order.
	List() ([]models.Note, error)
	// Put upserts a note keyed by its LocalID.
	Put(note models.Note) error
	// Delete removes a note; deleting an absent note is not an error.
	Delete(localID string) error
}

// RemoteStore defines the server operations the engine needs. Update and
// Delete report a vanished remote note as models.ErrNoteNotFound rather
// than a transport error.
type RemoteStore interface {
	List(ctx context.Context) ([]models.ServerNote, error)
	Insert(ctx context.Context, note models.ServerNote) (int64, error)
	Update(ctx context.Context, remoteID int64, title string, tags []string) error
	Delete(ctx context.Context, remoteID int64) error
}

// Conflict identifies a note whose unconfirmed local edit diverges from
// the remote copy. Detection is diagnostic only; the pass resolution is
// the last-writer rule (an unconfirmed local edit wins).
type Conflict struct {
	LocalID     string
	RemoteID    int64
	LocalTitle  string
	RemoteTitle string
	LocalTags   []string
	RemoteTags  []string
}

// Result summarizes one reconcile pass. A pass that found both stores
// consistent reports all zero counters and no conflicts.
type Result struct {
	Conflicts []Conflict
	// Created counts pending creations pushed to the server.
	Created int
	// Deleted counts tombstones resolved (locally removed, remote
	// deletion issued when the remote copy still existed).
	Deleted int
	// Attached counts remote notes joined to an unsynced local note via
	// the localId correlation value instead of being duplicated.
	Attached int
	// Pulled counts brand-new local notes materialized from remote data.
	Pulled int
	// PushedEdits and PulledEdits count the local-wins and remote-wins
	// outcomes of the last-writer rule.
	PushedEdits int
	PulledEdits int
	// Pruned counts fully synced local notes removed because their
	// remote copy was deleted by another actor.
	Pruned int
	// Errors collects per-note remote failures. None of them aborts the
	// pass; the affected notes stay pending for a future pass.
	Errors []error
}

// Engine is the reconciliation core. Connectivity is an injected
// capability so tests stay deterministic without a network stack.
type Engine struct {
	local  LocalStore
	remote RemoteStore
	online func() bool
	log    *zap.Logger

	// reconcileMu makes the whole pass single-flight: a trigger arriving
	// while a pass is in flight is dropped, never run concurrently.
	reconcileMu sync.Mutex
}

// New constructs an Engine. online is consulted before any remote call;
// log must not be nil (use zap.NewNop in tests).
func New(local LocalStore, remote RemoteStore, online func() bool, log *zap.Logger) *Engine {
	return &Engine{local: local, remote: remote, online: online, log: log}
}

// NewNote builds a new active note with a fresh LocalID and creation
// time. Returns models.ErrEmptyTitle for a blank title; no store is
// touched until the note is submitted.
func NewNote(title string, tags []string) (models.Note, error) {
	if strings.TrimSpace(title) == "" {
		return models.Note{}, models.ErrEmptyTitle
	}
	return models.Note{
		LocalID:   uuid.NewString(),
		Title:     title,
		Tags:      append([]string(nil), tags...),
		CreatedAt: time.Now().UTC(),
		State:     models.StateActive,
	}, nil
}

// SubmitNote persists the note locally, then, when online, pushes its
// server projection. A successful push assigns the server identifier and
// persists again; a failed push is swallowed — the missing RemoteID
// already marks the note pending for the next reconcile pass.
func (e *Engine) SubmitNote(ctx context.Context, note models.Note) error {
	if err := e.local.Put(note); err != nil {
		return fmt.Errorf("store note locally: %w", err)
	}
	if !e.online() {
		return nil
	}

	remoteID, err := e.remote.Insert(ctx, note.ServerNote())
	if err != nil {
		e.log.Warn("push failed, note kept pending",
			zap.String("localId", note.LocalID), zap.Error(err))
		return nil
	}
	note.RemoteID = remoteID
	if err := e.local.Put(note); err != nil {
		return fmt.Errorf("store remote id: %w", err)
	}
	return nil
}

// DeleteNote deletes the note with the given LocalID.
//
// A note the server never had is removed locally right away. A synced
// note is removed locally only once the remote deletion is confirmed (or
// the remote copy is already gone); when offline or when the remote call
// fails, the note becomes a tombstone the next reconcile pass retries.
func (e *Engine) DeleteNote(ctx context.Context, localID string) error {
	note, err := e.local.Get(localID)
	if err != nil {
		return err
	}
	if note == nil {
		return nil
	}
	if !note.Synced() {
		return e.local.Delete(localID)
	}

	if e.online() {
		err := e.remote.Delete(ctx, note.RemoteID)
		if err == nil || errors.Is(err, models.ErrNoteNotFound) {
			return e.local.Delete(localID)
		}
		e.log.Warn("remote delete failed, keeping tombstone",
			zap.String("localId", localID),
			zap.Int64("remoteId", note.RemoteID),
			zap.Error(err))
	}

	note.State = models.StatePendingDelete
	return e.local.Put(*note)
}

// EditNote applies a new title, and optionally a new tag set, to the note
// with the given LocalID. A nil tags argument preserves the existing
// tags. Editing an absent note or a tombstone is a no-op.
//
// A never-synced note is only persisted locally; the next reconcile pass
// pushes it whole. A synced note is pushed immediately when online, and
// marked pending-edit when offline or when the push fails.
func (e *Engine) EditNote(ctx context.Context, localID, title string, tags []string) error {
	if strings.TrimSpace(title) == "" {
		return models.ErrEmptyTitle
	}
	note, err := e.local.Get(localID)
	if err != nil {
		return err
	}
	if note == nil || note.State == models.StatePendingDelete {
		return nil
	}

	note.Title = title
	if tags != nil {
		note.Tags = append([]string(nil), tags...)
	}

	if !note.Synced() {
		return e.local.Put(*note)
	}

	if e.online() {
		if err := e.remote.Update(ctx, note.RemoteID, note.Title, note.Tags); err != nil {
			e.log.Warn("remote update failed, edit kept pending",
				zap.String("localId", localID),
				zap.Int64("remoteId", note.RemoteID),
				zap.Error(err))
			note.PendingEdit = true
			return e.local.Put(*note)
		}
		note.PendingEdit = false
		return e.local.Put(*note)
	}

	note.PendingEdit = true
	return e.local.Put(*note)
}

// ListNotes returns the active notes ordered by creation time descending,
// ties stable on insertion order. Tombstones are never returned.
func (e *Engine) ListNotes() ([]models.Note, error) {
	all, err := e.local.List()
	if err != nil {
		return nil, err
	}
	notes := make([]models.Note, 0, len(all))
	for _, n := range all {
		if n.State == models.StateActive {
			notes = append(notes, n)
		}
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}

// EqualTagSets compares two tag lists order-independently.
func EqualTagSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
