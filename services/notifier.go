package services

// Notifier pushes an event to a specific connected user. Pushing to a user
// with no live connection is a no-op, never an error: a commit must not
// abort because one side went offline.
type Notifier interface {
	Notify(userID, event string, payload interface{})
}

// SocketNotifier emits over the live Socket.IO connection tracked by the
// search registry
type SocketNotifier struct {
	Registry *SearchRegistry
}

// Notify emits the event on the user's connection, if any
func (n *SocketNotifier) Notify(userID, event string, payload interface{}) {
	conn, ok := n.Registry.Conn(userID)
	if !ok || conn == nil {
		return
	}
	conn.Emit(event, payload)
}
