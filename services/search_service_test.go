package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisconnectCancelsOwnedSearches(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	service := newTestService(store, constantScorer(0.9), notifier)

	conn := &fakeConn{id: "conn-1"}
	require.NoError(t, service.Submit(context.Background(), "lena", "photography", conn))
	require.Eventually(t, func() bool { return store.searchCount() == 1 }, time.Second, time.Millisecond)

	service.Disconnect("conn-1")

	// The orphaned task and its request are cleaned up.
	require.Eventually(t, func() bool {
		return store.searchCount() == 0 && service.Registry.Len() == 0
	}, time.Second, 5*time.Millisecond)

	// The connection is forgotten, so nothing further can reach it.
	_, ok := service.Registry.Conn("lena")
	assert.False(t, ok)
}

func TestDisconnectOfUnknownConnIsNoOp(t *testing.T) {
	store := newFakeStore()
	service := newTestService(store, constantScorer(0.9), &fakeNotifier{})

	service.Disconnect("never-seen")
	assert.Zero(t, service.Registry.Len())
}

func TestSubmitBindsConnectionForNotifications(t *testing.T) {
	store := newFakeStore()
	registry := NewSearchRegistry()
	service := NewSearchService(store, constantScorer(0.0), &SocketNotifier{Registry: registry}, registry, nil)
	service.Config = SearchConfig{
		TickInterval: 5 * time.Millisecond,
		Timeout:      30 * time.Millisecond,
		Threshold:    0.5,
	}

	conn := &fakeConn{id: "conn-9"}
	require.NoError(t, service.Submit(context.Background(), "mona", "pottery", conn))

	// The timeout notification arrives on the submitting connection even
	// though the search entry is removed first.
	require.Eventually(t, func() bool {
		for _, event := range conn.emittedEvents() {
			if event == EventSearchUpdate {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
}
