package services

import (
	"context"
	"sync"

	socketio "github.com/googollee/go-socket.io"
)

// SearchEntry is the process-local record of one active searcher: its live
// connection and the cancel handle of its engine task. Entries are compared
// by pointer identity, which is what lets a terminal transition prove it
// still owns the search.
type SearchEntry struct {
	UserID string
	Conn   socketio.Conn
	cancel context.CancelFunc
}

// NewSearchEntry creates an entry bound to a connection and a cancel handle
func NewSearchEntry(userID string, conn socketio.Conn, cancel context.CancelFunc) *SearchEntry {
	return &SearchEntry{UserID: userID, Conn: conn, cancel: cancel}
}

// Cancel stops the entry's engine task. Safe to call more than once.
func (e *SearchEntry) Cancel() {
	if e.cancel != nil {
		e.cancel()
	}
}

// SearchRegistry tracks active searchers and live connections. All access is
// serialized behind a mutex; the registry is owned by the SearchService and
// passed explicitly, never package-level.
type SearchRegistry struct {
	mu      sync.Mutex
	entries map[string]*SearchEntry
	conns   map[string]socketio.Conn
}

// NewSearchRegistry creates an empty registry
func NewSearchRegistry() *SearchRegistry {
	return &SearchRegistry{
		entries: make(map[string]*SearchEntry),
		conns:   make(map[string]socketio.Conn),
	}
}

// Register installs the entry for its user and returns the entry it
// displaced, if any
func (r *SearchRegistry) Register(entry *SearchEntry) *SearchEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.entries[entry.UserID]
	r.entries[entry.UserID] = entry
	if entry.Conn != nil {
		r.conns[entry.UserID] = entry.Conn
	}
	return old
}

// Get returns the live entry for a user
func (r *SearchRegistry) Get(userID string) (*SearchEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[userID]
	return entry, ok
}

// Remove deletes the user's entry only if it is still the given one. The
// boolean answers "does the caller own the terminal transition": exactly one
// Remove per entry returns true.
func (r *SearchRegistry) Remove(userID string, entry *SearchEntry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.entries[userID]
	if !ok || current != entry {
		return false
	}
	delete(r.entries, userID)
	return true
}

// Conn returns the live connection for a user. A user stays reachable after
// their search ends, until the connection itself drops.
func (r *SearchRegistry) Conn(userID string) (socketio.Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[userID]
	return conn, ok
}

// EntriesForConn returns every search entry bound to the given connection
func (r *SearchRegistry) EntriesForConn(connID string) []*SearchEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var owned []*SearchEntry
	for _, entry := range r.entries {
		if entry.Conn != nil && entry.Conn.ID() == connID {
			owned = append(owned, entry)
		}
	}
	return owned
}

// UnbindConn forgets every connection mapping held for the given connection
func (r *SearchRegistry) UnbindConn(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, conn := range r.conns {
		if conn.ID() == connID {
			delete(r.conns, userID)
		}
	}
}

// Len reports the number of active searchers
func (r *SearchRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
