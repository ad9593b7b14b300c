package ws

import (
	"encoding/json"
	"testing"
)

func TestHubBroadcastsByReference(t *testing.T) {
	hub := NewHub()
	sub := &Client{Reference: "ref-1", Send: make(chan []byte, 4)}
	other := &Client{Reference: "ref-2", Send: make(chan []byte, 4)}
	hub.Register(sub)
	hub.Register(other)

	hub.Broadcast("ref-1", map[string]string{"status": "COMPLETED"})

	select {
	case data := <-sub.Send:
		var msg map[string]string
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if msg["status"] != "COMPLETED" {
			t.Errorf("status = %q", msg["status"])
		}
	default:
		t.Fatal("subscriber got nothing")
	}
	select {
	case <-other.Send:
		t.Fatal("other reference received the event")
	default:
	}
}

func TestHubUnregistersOnClose(t *testing.T) {
	hub := NewHub()
	sub := &Client{Reference: "ref-1", Send: make(chan []byte, 1)}
	hub.Register(sub)
	if n := hub.SubscriberCount("ref-1"); n != 1 {
		t.Fatalf("subscribers = %d", n)
	}
	sub.Close()
	if n := hub.SubscriberCount("ref-1"); n != 0 {
		t.Errorf("subscribers after close = %d", n)
	}
	// broadcast to a drained reference is a no-op
	hub.Broadcast("ref-1", map[string]string{"status": "FAILED"})
}
