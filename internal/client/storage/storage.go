// Package storage implements the client's durable local note store: a
// mutex-guarded, insertion-ordered collection persisted as a single JSON
// file after every mutation.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/atinyakov/NoteKeeper/internal/models"
)

// LocalStorage is a file-backed note store keyed by the client-generated
// LocalID. Every mutation is written through to disk so notes survive a
// client restart, including notes that have never reached the server.
type LocalStorage struct {
	mu    sync.Mutex
	path  string
	notes []models.Note
}

// Open loads the store from path, creating an empty store if the file
// does not exist yet.
func Open(path string) (*LocalStorage, error) {
	ls := &LocalStorage{path: path}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ls, nil
		}
		return nil, fmt.Errorf("open local storage: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&ls.notes); err != nil {
		return nil, fmt.Errorf("decode local storage: %w", err)
	}
	return ls, nil
}

// flush writes the full note list to disk. Caller must hold mu.
func (ls *LocalStorage) flush() error {
	f, err := os.Create(ls.path)
	if err != nil {
		return fmt.Errorf("write local storage: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(ls.notes)
}

// Get returns the note with the given LocalID, or nil if absent.
func (ls *LocalStorage) Get(localID string) (*models.Note, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for _, n := range ls.notes {
		if n.LocalID == localID {
			note := n
			return &note, nil
		}
	}
	return nil, nil
}

// List returns a copy of all stored notes in insertion order, tombstones
// included.
func (ls *LocalStorage) List() ([]models.Note, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	out := make([]models.Note, len(ls.notes))
	copy(out, ls.notes)
	return out, nil
}

// Put upserts the note keyed by its LocalID and persists the store.
func (ls *LocalStorage) Put(note models.Note) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for i, n := range ls.notes {
		if n.LocalID == note.LocalID {
			ls.notes[i] = note
			return ls.flush()
		}
	}
	ls.notes = append(ls.notes, note)
	return ls.flush()
}

// Delete removes the note with the given LocalID and persists the store.
// Deleting an absent note is not an error.
func (ls *LocalStorage) Delete(localID string) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for i, n := range ls.notes {
		if n.LocalID == localID {
			ls.notes = append(ls.notes[:i], ls.notes[i+1:]...)
			return ls.flush()
		}
	}
	return nil
}
