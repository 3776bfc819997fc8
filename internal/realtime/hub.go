package realtime

import (
	"sync"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/usecase"
)

// sendBuffer bounds the per-connection event queue; a client that
// cannot drain it loses events, which is acceptable for a best-effort
// channel backed by the durable inbox.
const sendBuffer = 16

// Client is one live connection. The transport layer drains Send and
// writes each event to the wire; the channel is closed on Unregister.
type Client struct {
	UserID string
	Send   chan domain.PushEvent
}

// Hub is the per-user broadcast registry: every connection joins the
// room named by its user id, and Push fans an event out to every
// connection in that room.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		logger: logger,
	}
}

func (h *Hub) Register(userID string) *Client {
	client := &Client{
		UserID: userID,
		Send:   make(chan domain.PushEvent, sendBuffer),
	}

	h.mu.Lock()
	room, ok := h.rooms[userID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[userID] = room
	}
	room[client] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("realtime client joined", zap.String("user_id", userID))
	return client
}

func (h *Hub) Unregister(client *Client) {
	if client == nil {
		return
	}

	h.mu.Lock()
	room, ok := h.rooms[client.UserID]
	if ok {
		if _, member := room[client]; member {
			delete(room, client)
			close(client.Send)
		}
		if len(room) == 0 {
			delete(h.rooms, client.UserID)
		}
	}
	h.mu.Unlock()

	h.logger.Debug("realtime client left", zap.String("user_id", client.UserID))
}

// Push delivers the event to every connection of userID without
// blocking: a full client buffer drops the event for that connection.
// A user with no connections simply receives nothing.
func (h *Hub) Push(userID string, event domain.PushEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[userID] {
		select {
		case client.Send <- event:
		default:
			h.logger.Debug("realtime event dropped", zap.String("user_id", userID))
		}
	}
}

// Connections reports how many live connections a user has.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}

var _ usecase.Pusher = (*Hub)(nil)
