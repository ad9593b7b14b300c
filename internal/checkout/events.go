package checkout

// Event is a session status transition pushed to an optional observer
// (status line, ws feed).
type Event struct {
	Type       string `json:"type"`
	SessionID  string `json:"session_id"`
	Channel    string `json:"channel,omitempty"`
	TotalCents int64  `json:"total_cents,omitempty"`
	Message    string `json:"message,omitempty"`
}

const (
	EventSessionReady     = "session.ready"
	EventTotalUpdated     = "session.total_updated"
	EventSessionClosed    = "session.closed"
	EventAttemptSucceeded = "attempt.succeeded"
	EventAttemptFailed    = "attempt.failed"
	EventAttemptCanceled  = "attempt.canceled"
)

type Notifier interface {
	Notify(Event)
}
