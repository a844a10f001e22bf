package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Subhom1/clickmate-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory SearchStore with the same atomic TryLock
// semantics as the DynamoDB implementation
type fakeStore struct {
	mu       sync.Mutex
	searches map[string]models.SearchRequest
	pairs    []models.MatchPair
	failList bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{searches: make(map[string]models.SearchRequest)}
}

func (fs *fakeStore) PutSearch(ctx context.Context, userID, query string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.searches[userID] = models.SearchRequest{
		UserID:    userID,
		Query:     query,
		IsLocked:  false,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	return nil
}

// seed installs a raw request, bypassing PutSearch, so tests can control
// createdAt
func (fs *fakeStore) seed(request models.SearchRequest) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.searches[request.UserID] = request
}

func (fs *fakeStore) DeleteSearch(ctx context.Context, userID string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.searches, userID)
	return nil
}

func (fs *fakeStore) TryLock(ctx context.Context, userID string) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	request, ok := fs.searches[userID]
	if !ok || request.IsLocked {
		return false, nil
	}
	request.IsLocked = true
	fs.searches[userID] = request
	return true, nil
}

func (fs *fakeStore) Unlock(ctx context.Context, userID string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	request, ok := fs.searches[userID]
	if !ok {
		return nil
	}
	request.IsLocked = false
	fs.searches[userID] = request
	return nil
}

func (fs *fakeStore) ListCandidates(ctx context.Context, excludeUserID string) ([]models.SearchRequest, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.failList {
		return nil, errors.New("store unavailable")
	}
	var candidates []models.SearchRequest
	for _, request := range fs.searches {
		if request.UserID != excludeUserID && !request.IsLocked {
			candidates = append(candidates, request)
		}
	}
	return candidates, nil
}

func (fs *fakeStore) CreateMatchPair(ctx context.Context, pair models.MatchPair) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.pairs = append(fs.pairs, pair)
	return nil
}

func (fs *fakeStore) pairsSnapshot() []models.MatchPair {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]models.MatchPair(nil), fs.pairs...)
}

func (fs *fakeStore) searchCount() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.searches)
}

func (fs *fakeStore) setFailList(fail bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.failList = fail
}

// fakeScorer rates pairs through a test-provided function
type fakeScorer struct {
	fn func(textA, textB string) (float64, error)
}

func (s *fakeScorer) Score(ctx context.Context, textA, textB string) (float64, error) {
	return s.fn(textA, textB)
}

func constantScorer(score float64) *fakeScorer {
	return &fakeScorer{fn: func(string, string) (float64, error) { return score, nil }}
}

// fakeNotifier records every pushed event
type notification struct {
	userID  string
	event   string
	payload map[string]interface{}
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *fakeNotifier) Notify(userID, event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	body, _ := payload.(map[string]interface{})
	n.sent = append(n.sent, notification{userID: userID, event: event, payload: body})
}

func (n *fakeNotifier) count(userID string, match func(notification) bool) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	total := 0
	for _, sent := range n.sent {
		if sent.userID == userID && match(sent) {
			total++
		}
	}
	return total
}

func isMatched(n notification) bool {
	if n.event != EventSearchUpdate {
		return false
	}
	matches, ok := n.payload["matches"]
	return ok && matches != nil
}

func isNoResult(n notification) bool {
	if n.event != EventSearchUpdate {
		return false
	}
	matches, ok := n.payload["matches"]
	return ok && matches == nil
}

func isCancelled(n notification) bool {
	if n.event != EventSearchUpdate {
		return false
	}
	cancel, ok := n.payload["cancel"].(bool)
	return ok && cancel
}

func isFailure(n notification) bool {
	return n.event == EventSearchError
}

func newTestService(store SearchStore, scorer Scorer, notifier Notifier) *SearchService {
	service := NewSearchService(store, scorer, notifier, NewSearchRegistry(), nil)
	service.Config = SearchConfig{
		TickInterval: 5 * time.Millisecond,
		Timeout:      150 * time.Millisecond,
		Threshold:    0.5,
	}
	return service
}

func TestMutualSubmissionsCommitExactlyOnePair(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	service := newTestService(store, constantScorer(0.82), notifier)

	require.NoError(t, service.Submit(context.Background(), "alice", "jazz music", nil))
	require.NoError(t, service.Submit(context.Background(), "bob", "jazz concerts", nil))

	require.Eventually(t, func() bool {
		return len(store.pairsSnapshot()) == 1 && store.searchCount() == 0 && service.Registry.Len() == 0
	}, time.Second, 5*time.Millisecond)

	pairs := store.pairsSnapshot()
	require.Len(t, pairs, 1)
	pair := pairs[0]
	assert.ElementsMatch(t, []string{"alice", "bob"}, []string{pair.UserA, pair.UserB})
	assert.InDelta(t, 0.82, pair.Similarity, 1e-9)
	assert.NotEmpty(t, pair.MatchID)

	require.Eventually(t, func() bool {
		return notifier.count("alice", isMatched) == 1 && notifier.count("bob", isMatched) == 1
	}, time.Second, 5*time.Millisecond)

	// Let any stray tick run; neither side may be notified twice.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, notifier.count("alice", isMatched))
	assert.Equal(t, 1, notifier.count("bob", isMatched))
	assert.Zero(t, notifier.count("alice", isNoResult))
	assert.Zero(t, notifier.count("bob", isNoResult))
}

func TestLoneSearcherTimesOut(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	service := newTestService(store, constantScorer(0.9), notifier)

	require.NoError(t, service.Submit(context.Background(), "carol", "hiking", nil))

	require.Eventually(t, func() bool {
		return notifier.count("carol", isNoResult) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Zero(t, store.searchCount())
	assert.Zero(t, service.Registry.Len())
	assert.Empty(t, store.pairsSnapshot())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, notifier.count("carol", isNoResult))
}

func TestBelowThresholdNeverMatches(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	service := newTestService(store, constantScorer(0.4), notifier)

	require.NoError(t, service.Submit(context.Background(), "dave", "chess", nil))
	require.NoError(t, service.Submit(context.Background(), "erin", "poker", nil))

	require.Eventually(t, func() bool {
		return notifier.count("dave", isNoResult) == 1 && notifier.count("erin", isNoResult) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Empty(t, store.pairsSnapshot())
	assert.Zero(t, store.searchCount())
}

func TestBestCandidateWinsWithDeterministicTieBreak(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	scorer := &fakeScorer{fn: func(_, candidate string) (float64, error) {
		switch candidate {
		case "running":
			return 0.6, nil
		case "trail running":
			return 0.9, nil
		default:
			return 0, fmt.Errorf("unexpected candidate query %q", candidate)
		}
	}}
	service := newTestService(store, scorer, notifier)

	store.seed(models.SearchRequest{UserID: "weak", Query: "running", CreatedAt: "2024-01-01T00:00:00Z"})
	store.seed(models.SearchRequest{UserID: "strong", Query: "trail running", CreatedAt: "2024-01-01T00:00:05Z"})

	require.NoError(t, service.Submit(context.Background(), "frank", "marathons", nil))

	require.Eventually(t, func() bool {
		return len(store.pairsSnapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	pair := store.pairsSnapshot()[0]
	assert.ElementsMatch(t, []string{"frank", "strong"}, []string{pair.UserA, pair.UserB})

	// Tied scores break on earliest createdAt.
	store2 := newFakeStore()
	notifier2 := &fakeNotifier{}
	service2 := newTestService(store2, constantScorer(0.9), notifier2)
	store2.seed(models.SearchRequest{UserID: "later", Query: "cooking", CreatedAt: "2024-01-01T00:01:00Z"})
	store2.seed(models.SearchRequest{UserID: "earlier", Query: "baking", CreatedAt: "2024-01-01T00:00:00Z"})

	require.NoError(t, service2.Submit(context.Background(), "grace", "pastry", nil))

	require.Eventually(t, func() bool {
		return len(store2.pairsSnapshot()) == 1
	}, time.Second, 5*time.Millisecond)
	pair2 := store2.pairsSnapshot()[0]
	assert.ElementsMatch(t, []string{"grace", "earlier"}, []string{pair2.UserA, pair2.UserB})
}

func TestContendersForSameCandidateExactlyOneWins(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	scorer := &fakeScorer{fn: func(_, candidate string) (float64, error) {
		if candidate == "surfing" {
			return 0.9, nil
		}
		return 0.3, nil
	}}
	service := newTestService(store, scorer, notifier)

	// The contended candidate has no engine task of its own.
	store.seed(models.SearchRequest{UserID: "fiona", Query: "surfing", CreatedAt: "2024-01-01T00:00:00Z"})

	require.NoError(t, service.Submit(context.Background(), "dan", "windsurfing", nil))
	require.NoError(t, service.Submit(context.Background(), "eve", "kitesurfing", nil))

	require.Eventually(t, func() bool {
		return len(store.pairsSnapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	pairs := store.pairsSnapshot()
	require.Len(t, pairs, 1)
	assert.Contains(t, []string{pairs[0].UserA, pairs[0].UserB}, "fiona")

	// The loser keeps searching and eventually times out without
	// corrupting the consumed request.
	require.Eventually(t, func() bool {
		return notifier.count("dan", isNoResult)+notifier.count("eve", isNoResult) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Len(t, store.pairsSnapshot(), 1)
	assert.Zero(t, store.searchCount())
	assert.Equal(t, 1, notifier.count("fiona", isMatched))
}

func TestManyMutualSearchersNeverDoubleMatch(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	service := newTestService(store, constantScorer(0.9), notifier)

	users := []string{"u1", "u2", "u3", "u4", "u5", "u6"}
	for _, userID := range users {
		require.NoError(t, service.Submit(context.Background(), userID, "common interest", nil))
	}

	require.Eventually(t, func() bool {
		return len(store.pairsSnapshot()) == 3 && store.searchCount() == 0 && service.Registry.Len() == 0
	}, 2*time.Second, 5*time.Millisecond)

	seen := map[string]int{}
	for _, pair := range store.pairsSnapshot() {
		require.NotEqual(t, pair.UserA, pair.UserB)
		seen[pair.UserA]++
		seen[pair.UserB]++
	}
	for _, userID := range users {
		assert.Equal(t, 1, seen[userID], "user %s must appear in exactly one pair", userID)
	}
	for _, userID := range users {
		assert.Equal(t, 1, notifier.count(userID, isMatched))
	}
}

func TestCancelStopsSearchExactlyOnce(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	service := newTestService(store, constantScorer(0.9), notifier)

	require.NoError(t, service.Submit(context.Background(), "henry", "astronomy", nil))
	require.Eventually(t, func() bool { return store.searchCount() == 1 }, time.Second, time.Millisecond)

	service.Cancel("henry")

	require.Eventually(t, func() bool {
		return notifier.count("henry", isCancelled) == 1 && store.searchCount() == 0 && service.Registry.Len() == 0
	}, time.Second, 5*time.Millisecond)

	// Cancelling again is a no-op.
	service.Cancel("henry")
	service.Cancel("nobody")
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, notifier.count("henry", isCancelled))
	assert.Zero(t, notifier.count("henry", isNoResult))
}

func TestCancelAfterCommitIsNoOp(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	service := newTestService(store, constantScorer(0.82), notifier)

	require.NoError(t, service.Submit(context.Background(), "alice", "jazz music", nil))
	require.NoError(t, service.Submit(context.Background(), "bob", "jazz concerts", nil))

	require.Eventually(t, func() bool {
		return len(store.pairsSnapshot()) == 1 && service.Registry.Len() == 0
	}, time.Second, 5*time.Millisecond)

	service.Cancel("alice")
	service.Cancel("bob")
	time.Sleep(50 * time.Millisecond)

	assert.Len(t, store.pairsSnapshot(), 1)
	assert.Zero(t, store.searchCount())
	assert.Equal(t, 1, notifier.count("alice", isMatched))
	assert.Equal(t, 1, notifier.count("bob", isMatched))
	assert.Zero(t, notifier.count("alice", isCancelled))
	assert.Zero(t, notifier.count("bob", isCancelled))
}

func TestScorerFailureSkipsCandidateOnly(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	scorer := &fakeScorer{fn: func(_, candidate string) (float64, error) {
		if candidate == "broken" {
			return 0, errors.New("scorer exploded")
		}
		return 0.8, nil
	}}
	service := newTestService(store, scorer, notifier)

	store.seed(models.SearchRequest{UserID: "bad", Query: "broken", CreatedAt: "2024-01-01T00:00:00Z"})
	store.seed(models.SearchRequest{UserID: "good", Query: "gardening", CreatedAt: "2024-01-01T00:00:01Z"})

	require.NoError(t, service.Submit(context.Background(), "ivy", "plants", nil))

	require.Eventually(t, func() bool {
		return len(store.pairsSnapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	pair := store.pairsSnapshot()[0]
	assert.ElementsMatch(t, []string{"ivy", "good"}, []string{pair.UserA, pair.UserB})
	assert.Zero(t, notifier.count("ivy", isFailure))
}

func TestStoreOutageTerminatesTask(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	service := newTestService(store, constantScorer(0.9), notifier)

	require.NoError(t, service.Submit(context.Background(), "jack", "sailing", nil))
	store.setFailList(true)

	require.Eventually(t, func() bool {
		return notifier.count("jack", isFailure) == 1 && service.Registry.Len() == 0
	}, time.Second, 5*time.Millisecond)

	// The task stopped: no retries, no further notifications.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, notifier.count("jack", isFailure))
	assert.Zero(t, notifier.count("jack", isNoResult))
}

func TestResubmitReplacesRunningSearch(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	service := newTestService(store, constantScorer(0.1), notifier)

	require.NoError(t, service.Submit(context.Background(), "kate", "first query", nil))
	require.NoError(t, service.Submit(context.Background(), "kate", "second query", nil))

	assert.Equal(t, 1, service.Registry.Len())

	// Only the replacement search reaches a terminal state; the displaced
	// task exits silently.
	require.Eventually(t, func() bool {
		return notifier.count("kate", isNoResult) == 1 && service.Registry.Len() == 0
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, notifier.count("kate", isNoResult))
	assert.Zero(t, notifier.count("kate", isCancelled))
	assert.Zero(t, store.searchCount())
}

func TestSubmitValidatesInput(t *testing.T) {
	store := newFakeStore()
	service := newTestService(store, constantScorer(0.9), &fakeNotifier{})

	assert.ErrorIs(t, service.Submit(context.Background(), "", "query", nil), ErrInvalidInput)
	assert.ErrorIs(t, service.Submit(context.Background(), "user", "", nil), ErrInvalidInput)
	assert.Zero(t, store.searchCount())
	assert.Zero(t, service.Registry.Len())
}
