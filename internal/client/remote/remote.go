// Package remote implements the HTTP client for the note server: the
// four store verbs plus a connectivity probe.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/atinyakov/NoteKeeper/internal/models"
)

// Client talks to the note server API.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient returns a Client using the given http.Client and server base
// URL (no trailing slash).
func NewClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{http: httpClient, baseURL: baseURL}
}

// List fetches all remote notes, newest-created-first.
func (c *Client) List(ctx context.Context) ([]models.ServerNote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/notes", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list notes: server returned %s", resp.Status)
	}
	var notes []models.ServerNote
	if err := json.NewDecoder(resp.Body).Decode(&notes); err != nil {
		return nil, fmt.Errorf("list notes: invalid response: %w", err)
	}
	return notes, nil
}

// Insert creates a note on the server and returns the server-assigned
// identifier. The payload must carry a title and the localId correlation
// value or the server rejects it.
func (c *Client) Insert(ctx context.Context, note models.ServerNote) (int64, error) {
	b, err := json.Marshal(note)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/notes", bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("insert note: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("insert note: server returned %s", resp.Status)
	}
	var result struct {
		InsertedID int64 `json:"insertedId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("insert note: invalid response: %w", err)
	}
	return result.InsertedID, nil
}

// Update replaces the title and tags of the remote note with the given
// identifier. Returns models.ErrNoteNotFound if the server no longer has
// the note.
func (c *Client) Update(ctx context.Context, remoteID int64, title string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(map[string]any{"title": title, "tags": tags})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/api/notes/%d", c.baseURL, remoteID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("update note %d: %w", remoteID, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("update note %d: %w", remoteID, models.ErrNoteNotFound)
	default:
		return fmt.Errorf("update note %d: server returned %s", remoteID, resp.Status)
	}
}

// Delete removes the remote note with the given identifier. Returns
// models.ErrNoteNotFound if the server no longer has the note.
func (c *Client) Delete(ctx context.Context, remoteID int64) error {
	url := fmt.Sprintf("%s/api/notes/%d", c.baseURL, remoteID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete note %d: %w", remoteID, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("delete note %d: %w", remoteID, models.ErrNoteNotFound)
	default:
		return fmt.Errorf("delete note %d: server returned %s", remoteID, resp.Status)
	}
}

// Ping reports whether the server is reachable. Used as the client's
// connectivity signal.
func (c *Client) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/ping", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}
