package ws

import "giveflow/internal/checkout"

// SessionFeed adapts the hub to the checkout engine's event hook: session
// transitions are pushed to subscribers keyed by session ID, the same way
// charge updates are keyed by reference.
type SessionFeed struct {
	hub *Hub
}

var _ checkout.Notifier = (*SessionFeed)(nil)

func NewSessionFeed(hub *Hub) *SessionFeed {
	return &SessionFeed{hub: hub}
}

func (f *SessionFeed) Notify(e checkout.Event) {
	f.hub.Broadcast(e.SessionID, e)
}
