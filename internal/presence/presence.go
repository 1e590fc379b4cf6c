// Package presence tracks per-user connected/last-seen state for the two
// account holders. The entry set is fixed at construction; only the two
// mutable fields ever change.
package presence

import (
	"sync"
	"time"

	"expenses/internal/core"
)

// Entry is one user's presence state. LastSeen is nil until the user has
// connected or heartbeat at least once.
type Entry struct {
	Connected bool       `json:"connected"`
	LastSeen  *time.Time `json:"lastSeen"`
}

type Tracker struct {
	mu      sync.Mutex
	entries map[core.User]*Entry
}

func NewTracker() *Tracker {
	entries := make(map[core.User]*Entry, len(core.AllowedUsers()))
	for _, u := range core.AllowedUsers() {
		entries[u] = &Entry{}
	}
	return &Tracker{entries: entries}
}

// Connect marks the user connected and stamps lastSeen, returning the full
// presence snapshot. Unknown users are the caller's problem: handlers
// validate ids before calling in here.
func (t *Tracker) Connect(u core.User) map[core.User]Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[u]; ok {
		now := time.Now().UTC()
		e.Connected = true
		e.LastSeen = &now
	}
	return t.snapshotLocked()
}

// Heartbeat stamps lastSeen for a known user. Unknown users are a silent
// no-op and reported as false.
func (t *Tracker) Heartbeat(u core.User) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[u]
	if !ok {
		return false
	}
	now := time.Now().UTC()
	e.LastSeen = &now
	return true
}

// Reset restores both entries to their initial state.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.entries {
		e.Connected = false
		e.LastSeen = nil
	}
}

// Snapshot returns a copy of the current presence state.
func (t *Tracker) Snapshot() map[core.User]Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// MarkStale flips connected entries whose lastSeen is older than ttl back
// to disconnected. Returns how many entries were flipped.
func (t *Tracker) MarkStale(ttl time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := time.Now().Add(-ttl)
	flipped := 0
	for _, e := range t.entries {
		if e.Connected && e.LastSeen != nil && e.LastSeen.Before(cutoff) {
			e.Connected = false
			flipped++
		}
	}
	return flipped
}

func (t *Tracker) snapshotLocked() map[core.User]Entry {
	out := make(map[core.User]Entry, len(t.entries))
	for u, e := range t.entries {
		out[u] = *e
	}
	return out
}
