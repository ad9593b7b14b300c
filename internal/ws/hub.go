package ws

import (
	"encoding/json"
	"sync"
)

// Client represents a single WebSocket connection subscribed to one charge
// reference (idempotency key or intent reference).
type Client struct {
	Reference string
	Send      chan []byte
	Hub       *Hub
	mu        sync.Mutex
	closed    bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.Hub != nil {
		c.Hub.unregister(c)
	}
}

// Hub fans charge-status events out to subscribers keyed by reference.
type Hub struct {
	mu    sync.RWMutex
	byRef map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{byRef: make(map[string]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.Hub = h
	if h.byRef[c.Reference] == nil {
		h.byRef[c.Reference] = make(map[*Client]struct{})
	}
	h.byRef[c.Reference][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.byRef[c.Reference]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byRef, c.Reference)
		}
	}
}

func (h *Hub) Broadcast(reference string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.mu.RLock()
	m := h.byRef[reference]
	if m == nil {
		h.mu.RUnlock()
		return
	}
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

func (h *Hub) SubscriberCount(reference string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byRef[reference])
}
