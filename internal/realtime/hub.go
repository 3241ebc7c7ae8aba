package realtime

import (
	"sync"

	"github.com/codecrew/backend/internal/models"
)

// Event is what subscribers receive on a room channel.
type Event struct {
	Kind    string             `json:"kind"` // message
	Room    string             `json:"room"`
	Message models.ChatMessage `json:"message"`
}

const EventKindMessage = "message"

// Hub manages per-room subscriber channels and event broadcasting.
// One hub serves the whole process; rooms exist only while at least one
// client is subscribed.
type Hub struct {
	rooms  map[string]map[string]chan Event
	mu     sync.RWMutex
	buffer int
}

// NewHub creates a hub. buffer is the per-subscriber channel depth.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 256
	}
	return &Hub{
		rooms:  make(map[string]map[string]chan Event),
		buffer: buffer,
	}
}

// Subscribe registers a client in a room and returns its event channel.
func (h *Hub) Subscribe(room, clientID string) <-chan Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[string]chan Event)
	}
	ch := make(chan Event, h.buffer)
	h.rooms[room][clientID] = ch
	return ch
}

// Unsubscribe removes a client from a room; empty rooms are dropped.
// Idempotent.
func (h *Hub) Unsubscribe(room, clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscribers, ok := h.rooms[room]
	if !ok {
		return
	}
	if ch, ok := subscribers[clientID]; ok {
		close(ch)
		delete(subscribers, clientID)
	}
	if len(subscribers) == 0 {
		delete(h.rooms, room)
	}
}

// Publish broadcasts an event to every subscriber of the room,
// including the sender. Slow subscribers with a full buffer miss the
// event rather than block the hub.
func (h *Hub) Publish(room string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.rooms[room] {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip this event
		}
	}
}

// SubscriberCount returns the number of clients in a room.
func (h *Hub) SubscriberCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
