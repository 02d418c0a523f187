package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/serenehq/serene-backend/internal/pkg/logger"
)

// Event names published over SSE. Channels are user ids, so a client only
// ever sees its own events.
const (
	EventPreferenceSummaryReady = "preference_summary.ready"
	EventConversationSaved      = "conversation.saved"
)

type Message struct {
	Channel string         `json:"channel"`
	Event   string         `json:"event"`
	Data    map[string]any `json:"data,omitempty"`
}

type Client struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Outbound chan Message
}

// Hub fans messages out to connected SSE clients. Clients subscribe to their
// own user channel; a slow client drops messages rather than blocking
// publishers.
type Hub struct {
	log *logger.Logger

	mu       sync.RWMutex
	byChan   map[string]map[uuid.UUID]*Client
	byClient map[uuid.UUID]string
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:      log.With("service", "RealtimeHub"),
		byChan:   make(map[string]map[uuid.UUID]*Client),
		byClient: make(map[uuid.UUID]string),
	}
}

func (h *Hub) Subscribe(userID uuid.UUID, channel string) *Client {
	client := &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Outbound: make(chan Message, 16),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.byChan[channel] == nil {
		h.byChan[channel] = make(map[uuid.UUID]*Client)
	}
	h.byChan[channel][client.ID] = client
	h.byClient[client.ID] = channel
	return client
}

func (h *Hub) Unsubscribe(client *Client) {
	if client == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	channel, ok := h.byClient[client.ID]
	if !ok {
		return
	}
	delete(h.byClient, client.ID)
	if clients := h.byChan[channel]; clients != nil {
		delete(clients, client.ID)
		if len(clients) == 0 {
			delete(h.byChan, channel)
		}
	}
	close(client.Outbound)
}

func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.byChan[msg.Channel] {
		select {
		case client.Outbound <- msg:
		default:
			h.log.Warn("Dropping realtime message for slow client", "client_id", client.ID, "event", msg.Event)
		}
	}
}
