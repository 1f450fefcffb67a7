// Package realtime relays engine domain events to websocket subscribers.
// Delivery is best-effort, at-most-once: a slow or gone client is skipped,
// and no engine operation ever fails because a broadcast did.
package realtime

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	EventFixtureGenerated    = "fixture.generated"
	EventMatchRescheduled    = "match.rescheduled"
	EventStandingsRecomputed = "standings.recomputed"
)

// Event is the envelope every broadcast carries.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	FixtureID int         `json:"fixture_id"`
	Payload   interface{} `json:"payload,omitempty"`
	EmittedAt time.Time   `json:"emitted_at"`
}

func NewEvent(eventType string, fixtureID int, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		FixtureID: fixtureID,
		Payload:   payload,
		EmittedAt: time.Now().UTC(),
	}
}

// Hub fans events out to clients grouped in one room per fixture.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Debug("websocket client registered",
				slog.String("room", client.room),
				slog.Int("room_size", len(h.rooms[client.room])))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if _, registered := clients[client]; registered {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

func fixtureRoom(fixtureID int) string {
	return fmt.Sprintf("fixture_%d", fixtureID)
}

// BroadcastToFixture sends an event to every client subscribed to the
// fixture's room. Marshal or delivery problems are logged and swallowed.
func (h *Hub) BroadcastToFixture(fixtureID int, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal event",
			slog.String("type", event.Type), slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	room := fixtureRoom(fixtureID)
	for client := range h.rooms[room] {
		client.mu.Lock()
		if !client.closed {
			select {
			case client.send <- payload:
			default:
				// Client buffer full; drop rather than block the engine.
				h.logger.Warn("dropping event for slow client", slog.String("room", room))
			}
		}
		client.mu.Unlock()
	}
}
