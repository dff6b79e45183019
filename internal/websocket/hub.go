package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Event types broadcast to connected displays.
const (
	EventQuestCompleted = "quest_completed"
	EventQuestsReset    = "quests_reset"
	EventGuideReady     = "guide_ready"
	EventGuideFailed    = "guide_failed"
)

// Message is a real-time notification broadcast to all connected clients.
type Message struct {
	Type    string         `json:"type"`
	QuestID string         `json:"quest_id,omitempty"`
	Extra   map[string]any `json:"extra,omitempty"`
}

// QuestCompleted announces a quest completion so every display refreshes.
func QuestCompleted(questID string) Message {
	return Message{Type: EventQuestCompleted, QuestID: questID}
}

// QuestsReset announces that the completion ledger was cleared.
func QuestsReset() Message {
	return Message{Type: EventQuestsReset}
}

// GuideReady announces a finished guide image for the given activity.
func GuideReady(questID string, extra map[string]any) Message {
	return Message{Type: EventGuideReady, QuestID: questID, Extra: extra}
}

// GuideFailed announces a guide generation failure with its user message.
func GuideFailed(questID, reason string) Message {
	return Message{Type: EventGuideFailed, QuestID: questID, Extra: map[string]any{"reason": reason}}
}

// Hub maintains the set of active WebSocket clients and broadcasts messages.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends a message to all connected clients.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client buffer full, drop the message to avoid blocking
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
