package sse

import (
	"sync"
)

// Event is pushed to every subscriber of a tenant.
type Event struct {
	TenantID string
	Event    string
	Data     interface{}
}

// Hub fans events out to subscribers grouped by tenant. Slow subscribers
// drop events rather than block publishers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	bufferSize  int
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		bufferSize:  16,
	}
}

// Subscribe registers a subscriber for tenantID. The returned cleanup must be
// called exactly once; it closes the channel.
func (h *Hub) Subscribe(tenantID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.bufferSize)

	if h.subscribers[tenantID] == nil {
		h.subscribers[tenantID] = make(map[chan Event]struct{})
	}
	h.subscribers[tenantID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[tenantID], ch)
			close(ch)
			if len(h.subscribers[tenantID]) == 0 {
				delete(h.subscribers, tenantID)
			}
		})
	}

	return ch, cleanup
}

// Publish sends event to all subscribers of tenantID without blocking.
func (h *Hub) Publish(tenantID string, event Event) {
	event.TenantID = tenantID

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[tenantID] {
		select {
		case ch <- event:
		default:
			// Skip if channel is full (non-blocking to prevent deadlock)
		}
	}
}

// SubscriberCount returns the number of active subscribers for a tenant.
func (h *Hub) SubscriberCount(tenantID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[tenantID])
}

// TotalSubscribers returns the number of active subscribers across tenants.
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
