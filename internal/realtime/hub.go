package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Task event types pushed to connected clients
const (
	EventTaskCreated         = "task.created"
	EventTaskUpdated         = "task.updated"
	EventTaskDeleted         = "task.deleted"
	EventTaskUpdateSubmitted = "task.update_submitted"
)

// Client is a single connection. The network side lives in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Event is the envelope written to clients
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub maintains active user connections and broadcasts events to them
type Hub struct {
	mu      sync.RWMutex
	clients map[uint64]map[Client]struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[uint64]map[Client]struct{}),
	}
}

// Register adds a client under a user ID
func (h *Hub) Register(userID uint64, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

// Unregister removes a client and drops the user once no clients remain
func (h *Hub) Unregister(userID uint64, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, userID)
		}
	}
}

// Connections returns how many clients a user has open
func (h *Hub) Connections(userID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Broadcast hands a raw message to all clients of a user. Clients queue
// without blocking; a client that cannot take the message is skipped.
func (h *Hub) Broadcast(userID uint64, message []byte) {
	h.mu.RLock()
	targets := make([]Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.Send(message)
	}
}

// BroadcastToUsers encodes one event and delivers it once per distinct user
func (h *Hub) BroadcastToUsers(userIDs []uint64, eventType string, payload interface{}) {
	if len(userIDs) == 0 {
		return
	}

	message, err := json.Marshal(Event{Type: eventType, Payload: payload, Timestamp: time.Now()})
	if err != nil {
		log.Printf("failed to encode %s event: %v", eventType, err)
		return
	}

	seen := make(map[uint64]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		h.Broadcast(id, message)
	}
}
