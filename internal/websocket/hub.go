package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Entities announced over the socket.
const (
	EntityRecipe   = "recipe"
	EntityPantry   = "pantry_item"
	EntityShopping = "shopping_item"
	EntityMealPlan = "meal_plan"
	EntitySettings = "settings"
)

// Actions announced over the socket.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
	ActionCleared = "cleared"
	ActionMoved   = "moved"
)

// Message tells a user's other sessions that something they own changed.
// Clients refetch; the payload never carries entity data.
type Message struct {
	Type   string `json:"type"`
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     int64  `json:"id,omitempty"`
}

func NewMessage(entity, action string, id int64) Message {
	return Message{
		Type:   entity + "_" + action,
		Entity: entity,
		Action: action,
		ID:     id,
	}
}

// Hub tracks connected clients per user. Broadcasts never cross users.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set, ok := h.clients[c.userID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			close(c.send)
		}
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()
}

// Broadcast sends msg to every connection of userID. Slow clients drop it.
func (h *Hub) Broadcast(userID int64, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[userID] {
		select {
		case c.send <- data:
		default:
			h.logger.Debug("dropping message for slow client", "user_id", userID, "type", msg.Type)
		}
	}
}

// Disconnect closes every connection held by userID, used after account deletion.
func (h *Hub) Disconnect(userID int64) {
	h.mu.Lock()
	set := h.clients[userID]
	delete(h.clients, userID)
	for c := range set {
		close(c.send)
	}
	h.mu.Unlock()
}

// ClientCount returns the number of connections across all users.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// UserClientCount returns the number of connections held by userID.
func (h *Hub) UserClientCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
