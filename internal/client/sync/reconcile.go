package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/NoteKeeper/internal/models"
)

// Reconcile runs one full merge pass between the local store and the
// server. It is a no-op when offline, and single-flight: a call arriving
// while a pass is in flight is dropped.
//
// The pass is an ordered sequence of phases, each completing before the
// next starts:
//
//  1. snapshot both stores
//  2. detect and log conflicts (observe-only)
//  3. push pending deletes
//  4. push pending creates
//  5. re-snapshot both stores
//  6. pull new remote notes, attaching by localId correlation first
//  7. settle edits by the last-writer rule (pending local edit wins,
//     otherwise remote wins)
//  8. prune local notes whose remote copy was deleted by another actor
//
// Per-note remote failures are logged, recorded in the Result and leave
// that note's pending state unchanged; they never abort the pass.
// Re-running Reconcile on an already-consistent pair of stores performs
// no mutations and reports no conflicts.
func (e *Engine) Reconcile(ctx context.Context) (*Result, error) {
	res := &Result{}
	if !e.online() {
		return res, nil
	}
	if !e.reconcileMu.TryLock() {
		e.log.Debug("reconcile already in flight, trigger dropped")
		return res, nil
	}
	defer e.reconcileMu.Unlock()

	// Phase 1: snapshot.
	locals, err := e.local.List()
	if err != nil {
		return nil, fmt.Errorf("snapshot local notes: %w", err)
	}
	remotes, err := e.remote.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot remote notes: %w", err)
	}

	// Phase 2: conflict detection, observe-only.
	e.detectConflicts(locals, remotes, res)

	// Phase 3: pending deletes.
	e.pushPendingDeletes(ctx, locals, remotes, res)

	// Phase 4: pending creates.
	e.pushPendingCreates(ctx, locals, remotes, res)

	// Phase 5: re-snapshot, so phases 6-8 see what phases 3-4 changed.
	locals, err = e.local.List()
	if err != nil {
		return res, fmt.Errorf("re-snapshot local notes: %w", err)
	}
	remotes, err = e.remote.List(ctx)
	if err != nil {
		return res, fmt.Errorf("re-snapshot remote notes: %w", err)
	}

	// Phase 6: pull new remote notes.
	locals = e.pullNewRemotes(remotes, locals, res)

	// Phase 7: settle edits.
	e.settleEdits(ctx, locals, remotes, res)

	// Phase 8: prune notes deleted remotely by another actor.
	e.pruneStaleLocals(locals, remotes, res)

	return res, nil
}

// detectConflicts flags every note whose unconfirmed local edit diverges
// from the remote copy. Purely diagnostic: no data changes here, the
// last-writer rule in settleEdits decides the outcome.
func (e *Engine) detectConflicts(locals []models.Note, remotes []models.ServerNote, res *Result) {
	for _, n := range locals {
		if !n.PendingEdit || !n.Synced() {
			continue
		}
		rn, ok := findRemote(remotes, n.RemoteID)
		if !ok {
			continue
		}
		if n.Title == rn.Title && EqualTagSets(n.Tags, rn.Tags) {
			continue
		}
		c := Conflict{
			LocalID:     n.LocalID,
			RemoteID:    n.RemoteID,
			LocalTitle:  n.Title,
			RemoteTitle: rn.Title,
			LocalTags:   n.Tags,
			RemoteTags:  rn.Tags,
		}
		res.Conflicts = append(res.Conflicts, c)
		e.log.Warn("conflict detected",
			zap.Int64("remoteId", c.RemoteID),
			zap.String("localTitle", c.LocalTitle),
			zap.String("remoteTitle", c.RemoteTitle),
			zap.Strings("localTags", c.LocalTags),
			zap.Strings("remoteTags", c.RemoteTags))
	}
}

// pushPendingDeletes resolves tombstones. When the remote copy still
// exists its deletion must be confirmed before the tombstone is dropped;
// when it is already gone the deletion goal is met and the tombstone is
// dropped right away.
func (e *Engine) pushPendingDeletes(ctx context.Context, locals []models.Note, remotes []models.ServerNote, res *Result) {
	for _, n := range locals {
		if n.State != models.StatePendingDelete || !n.Synced() {
			continue
		}
		if _, ok := findRemote(remotes, n.RemoteID); ok {
			if err := e.remote.Delete(ctx, n.RemoteID); err != nil && !errors.Is(err, models.ErrNoteNotFound) {
				e.fail(res, "push pending delete", n.LocalID, err)
				continue
			}
		}
		if err := e.local.Delete(n.LocalID); err != nil {
			e.fail(res, "drop tombstone", n.LocalID, err)
			continue
		}
		res.Deleted++
	}
}

// pushPendingCreates inserts every note the server has never seen. A
// note whose correlation value already appears in the remote snapshot
// was created by an earlier push whose response was lost; it is attached
// instead of inserted again. On failure the note simply stays without a
// RemoteID for a future pass.
func (e *Engine) pushPendingCreates(ctx context.Context, locals []models.Note, remotes []models.ServerNote, res *Result) {
	for _, n := range locals {
		if n.Synced() || n.State != models.StateActive {
			continue
		}
		if rn, ok := findRemoteByCorrelation(remotes, n.LocalID); ok {
			n.RemoteID = rn.RemoteID
			if err := e.local.Put(n); err != nil {
				e.fail(res, "attach remote id", n.LocalID, err)
				continue
			}
			res.Attached++
			continue
		}
		remoteID, err := e.remote.Insert(ctx, n.ServerNote())
		if err != nil {
			e.fail(res, "push pending create", n.LocalID, err)
			continue
		}
		n.RemoteID = remoteID
		if err := e.local.Put(n); err != nil {
			e.fail(res, "store remote id", n.LocalID, err)
			continue
		}
		res.Created++
	}
}

// pullNewRemotes materializes remote notes that have no local note with
// the same RemoteID. A local note that is this same note still awaiting
// its identifier (matched via the echoed localId correlation value) is
// attached instead of duplicated. Returns the updated local snapshot.
func (e *Engine) pullNewRemotes(remotes []models.ServerNote, locals []models.Note, res *Result) []models.Note {
	for _, rn := range remotes {
		if _, ok := findLocal(locals, rn.RemoteID); ok {
			continue
		}
		if i := findUnsyncedByCorrelation(locals, rn.LocalID); i >= 0 {
			locals[i].RemoteID = rn.RemoteID
			if err := e.local.Put(locals[i]); err != nil {
				e.fail(res, "attach remote id", locals[i].LocalID, err)
				continue
			}
			res.Attached++
			continue
		}
		n := models.Note{
			LocalID:   uuid.NewString(),
			RemoteID:  rn.RemoteID,
			Title:     rn.Title,
			Tags:      rn.Tags,
			CreatedAt: rn.CreatedAt,
			State:     models.StateActive,
		}
		if err := e.local.Put(n); err != nil {
			e.fail(res, "pull remote note", n.LocalID, err)
			continue
		}
		locals = append(locals, n)
		res.Pulled++
	}
	return locals
}

// settleEdits applies the last-writer rule per matched note: a pending
// local edit is pushed (local wins); otherwise diverging remote content
// overwrites local (remote wins). Tombstones are never touched.
func (e *Engine) settleEdits(ctx context.Context, locals []models.Note, remotes []models.ServerNote, res *Result) {
	for _, rn := range remotes {
		n, ok := findLocal(locals, rn.RemoteID)
		if !ok || n.State != models.StateActive {
			continue
		}
		if n.PendingEdit {
			if err := e.remote.Update(ctx, n.RemoteID, n.Title, n.Tags); err != nil {
				e.fail(res, "push pending edit", n.LocalID, err)
				continue
			}
			n.PendingEdit = false
			if err := e.local.Put(n); err != nil {
				e.fail(res, "clear pending edit", n.LocalID, err)
				continue
			}
			res.PushedEdits++
			continue
		}
		if n.Title == rn.Title && EqualTagSets(n.Tags, rn.Tags) {
			continue
		}
		n.Title = rn.Title
		n.Tags = rn.Tags
		if err := e.local.Put(n); err != nil {
			e.fail(res, "pull remote edit", n.LocalID, err)
			continue
		}
		res.PulledEdits++
	}
}

// pruneStaleLocals removes fully synced local notes whose remote copy was
// deleted by another actor. Notes with a pending edit are kept: they hold
// unsynced local work.
func (e *Engine) pruneStaleLocals(locals []models.Note, remotes []models.ServerNote, res *Result) {
	for _, n := range locals {
		if !n.Synced() || n.State != models.StateActive || n.PendingEdit {
			continue
		}
		if _, ok := findRemote(remotes, n.RemoteID); ok {
			continue
		}
		if err := e.local.Delete(n.LocalID); err != nil {
			e.fail(res, "prune stale note", n.LocalID, err)
			continue
		}
		e.log.Info("pruned note deleted remotely",
			zap.String("localId", n.LocalID), zap.Int64("remoteId", n.RemoteID))
		res.Pruned++
	}
}

// fail records and logs a per-note failure without aborting the pass.
func (e *Engine) fail(res *Result, op, localID string, err error) {
	e.log.Error("reconcile step failed",
		zap.String("op", op), zap.String("localId", localID), zap.Error(err))
	res.Errors = append(res.Errors, fmt.Errorf("%s (note %s): %w", op, localID, err))
}

func findRemote(remotes []models.ServerNote, remoteID int64) (models.ServerNote, bool) {
	for _, rn := range remotes {
		if rn.RemoteID == remoteID {
			return rn, true
		}
	}
	return models.ServerNote{}, false
}

func findLocal(locals []models.Note, remoteID int64) (models.Note, bool) {
	for _, n := range locals {
		if n.RemoteID == remoteID {
			return n, true
		}
	}
	return models.Note{}, false
}

func findRemoteByCorrelation(remotes []models.ServerNote, localID string) (models.ServerNote, bool) {
	for _, rn := range remotes {
		if rn.LocalID == localID {
			return rn, true
		}
	}
	return models.ServerNote{}, false
}

func findUnsyncedByCorrelation(locals []models.Note, localID string) int {
	for i, n := range locals {
		if !n.Synced() && n.LocalID == localID {
			return i
		}
	}
	return -1
}
