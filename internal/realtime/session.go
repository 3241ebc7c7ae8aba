package realtime

import (
	"context"
	"strings"
	"sync"

	"github.com/codecrew/backend/internal/models"
	"github.com/google/uuid"
)

// MessageStore persists a chat message and returns the canonical row
// with its identity and timestamp assigned.
type MessageStore interface {
	SaveMessage(ctx context.Context, beaconID, senderID uint, content string) (*models.ChatMessage, error)
}

// Publisher fans a message out to every subscriber of a room.
type Publisher interface {
	Publish(room string, event Event)
}

// Session maintains one connected client's live, ordered view of a
// room's chat and lets that client post messages. At most one room
// subscription is active per session; connecting to a different room
// tears down the previous one.
type Session struct {
	store    MessageStore
	hub      *Hub
	pub      Publisher
	userID   uint
	beaconID uint
	clientID string

	mu        sync.Mutex
	room      string
	connected bool
	messages  []models.ChatMessage
	seen      map[uint]struct{}
	events    <-chan Event
	done      chan struct{}

	// OnMessage is invoked after each accepted message with the new
	// message and the full updated sequence.
	OnMessage func(msg models.ChatMessage, all []models.ChatMessage)
}

// NewSession builds a session for one authenticated user and beacon.
// pub is where sends are broadcast; usually the hub itself, or a Redis
// bridge in multi-instance deployments.
func NewSession(store MessageStore, hub *Hub, pub Publisher, userID, beaconID uint) *Session {
	if pub == nil {
		pub = hub
	}
	return &Session{
		store:    store,
		hub:      hub,
		pub:      pub,
		userID:   userID,
		beaconID: beaconID,
		clientID: uuid.NewString(),
		seen:     make(map[uint]struct{}),
	}
}

// Connect subscribes the session to a room, seeding the message list
// from a history snapshot. A prior subscription for a different room is
// torn down first.
func (s *Session) Connect(room string, seed []models.ChatMessage) {
	s.Disconnect()

	s.mu.Lock()
	s.room = room
	s.messages = make([]models.ChatMessage, 0, len(seed))
	s.seen = make(map[uint]struct{}, len(seed))
	for _, msg := range seed {
		if _, dup := s.seen[msg.ID]; dup {
			continue
		}
		s.messages = append(s.messages, msg)
		s.seen[msg.ID] = struct{}{}
	}
	s.events = s.hub.Subscribe(room, s.clientID)
	s.done = make(chan struct{})
	s.connected = true
	events := s.events
	done := s.done
	s.mu.Unlock()

	go s.receiveLoop(events, done)
}

// Connected reports whether the session holds an active subscription.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Messages returns a copy of the current ordered sequence.
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Send persists the message and then broadcasts the canonical row to
// the room, the sender included. Empty or whitespace-only content and
// sends without a connection are no-ops. A persistence failure aborts
// the send: nothing is broadcast and the error is returned.
func (s *Session) Send(ctx context.Context, content string) error {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	s.mu.Lock()
	connected := s.connected
	room := s.room
	s.mu.Unlock()
	if !connected {
		return nil
	}

	msg, err := s.store.SaveMessage(ctx, s.beaconID, s.userID, content)
	if err != nil {
		return err
	}

	s.pub.Publish(room, Event{Kind: EventKindMessage, Room: room, Message: *msg})
	return nil
}

// Disconnect tears down the subscription. Idempotent.
func (s *Session) Disconnect() {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return
	}
	room := s.room
	done := s.done
	s.connected = false
	s.room = ""
	s.mu.Unlock()

	close(done)
	s.hub.Unsubscribe(room, s.clientID)
}

// receiveLoop appends delivered messages in receipt order, suppressing
// duplicates by message identity.
func (s *Session) receiveLoop(events <-chan Event, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Kind == EventKindMessage {
				s.receive(event.Message)
			}
		}
	}
}

func (s *Session) receive(msg models.ChatMessage) {
	s.mu.Lock()
	if _, dup := s.seen[msg.ID]; dup {
		s.mu.Unlock()
		return
	}
	s.messages = append(s.messages, msg)
	s.seen[msg.ID] = struct{}{}
	all := make([]models.ChatMessage, len(s.messages))
	copy(all, s.messages)
	observer := s.OnMessage
	s.mu.Unlock()

	if observer != nil {
		observer(msg, all)
	}
}
