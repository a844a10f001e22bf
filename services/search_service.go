package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Subhom1/clickmate-backend/models"
	socketio "github.com/googollee/go-socket.io"
)

// Socket events pushed to searching users
const (
	EventSearchUpdate = "search_update"
	EventSearchError  = "error"
)

// ErrInvalidInput is returned for a submit with a missing userId or query
var ErrInvalidInput = errors.New("userId and query are required")

// ProfileLoader resolves a user's profile for the match payload
type ProfileLoader interface {
	GetProfileByID(ctx context.Context, userID string) (*models.UserProfile, error)
}

// SearchConfig holds the pairing engine's tuning knobs
type SearchConfig struct {
	// TickInterval paces the candidate-pool polling loop
	TickInterval time.Duration
	// Timeout is the wall-clock ceiling on one search
	Timeout time.Duration
	// Threshold is the minimum similarity accepted for a pairing
	Threshold float64
}

// DefaultSearchConfig returns the production tuning: 1s ticks, 30s timeout,
// 0.5 acceptance threshold
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		TickInterval: time.Second,
		Timeout:      30 * time.Second,
		Threshold:    0.5,
	}
}

// SearchService runs the interest-query matchmaking: it accepts search
// submissions, runs one pairing-engine task per searcher, and pushes the
// outcome to both sides over the live connections.
type SearchService struct {
	Store    SearchStore
	Scorer   Scorer
	Notifier Notifier
	Registry *SearchRegistry
	Profiles ProfileLoader
	Config   SearchConfig
}

// NewSearchService wires a SearchService with the default config
func NewSearchService(store SearchStore, scorer Scorer, notifier Notifier, registry *SearchRegistry, profiles ProfileLoader) *SearchService {
	return &SearchService{
		Store:    store,
		Scorer:   scorer,
		Notifier: notifier,
		Registry: registry,
		Profiles: profiles,
		Config:   DefaultSearchConfig(),
	}
}

// Submit replaces any outstanding search for the user with a fresh one and
// starts its engine task. The previous task, if any, is cancelled and exits
// without side effects.
func (s *SearchService) Submit(ctx context.Context, userID, query string, conn socketio.Conn) error {
	if userID == "" || query == "" {
		return ErrInvalidInput
	}

	// The task outlives the submit request, so it gets its own context.
	taskCtx, cancel := context.WithCancel(context.Background())
	entry := NewSearchEntry(userID, conn, cancel)
	if old := s.Registry.Register(entry); old != nil {
		old.Cancel()
	}

	if err := s.Store.PutSearch(ctx, userID, query); err != nil {
		s.Registry.Remove(userID, entry)
		cancel()
		return fmt.Errorf("failed to store search request: %w", err)
	}

	go s.runSearch(taskCtx, entry, query)
	return nil
}

// Cancel stops the user's search. Cancelling a search that does not exist,
// or that already committed into a pairing, is a no-op.
func (s *SearchService) Cancel(userID string) {
	if userID == "" {
		return
	}
	entry, ok := s.Registry.Get(userID)
	if !ok {
		return
	}
	// The engine task observes this at its next suspension point and owns
	// the cleanup; racing against a commit is resolved by registry
	// ownership, never here.
	entry.Cancel()
}

// Disconnect treats a dropped connection as a cancel for every search it
// owned, so no polling task or lock outlives its user
func (s *SearchService) Disconnect(connID string) {
	for _, entry := range s.Registry.EntriesForConn(connID) {
		entry.Cancel()
	}
	s.Registry.UnbindConn(connID)
}
