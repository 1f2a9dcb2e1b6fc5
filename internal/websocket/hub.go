// Package websocket fans chat events out to connected clients. It is a thin
// delivery layer: events are JSON, membership comes from the chat store, and
// no protocol state is kept beyond the connection registry.
package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// MemberResolver resolves a chat to its member user IDs. Implemented by the
// chat store.
type MemberResolver interface {
	MemberIDs(ctx context.Context, chatID string) ([]string, error)
}

// Hub maintains the set of active clients and fans events out to them
type Hub struct {
	resolver MemberResolver

	// Registered clients mapped by user ID
	clients map[string]*Client

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub(resolver MemberResolver) *Hub {
	return &Hub{
		resolver:   resolver,
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// If user already has a connection, close the old one
	if existing, ok := h.clients[client.ID]; ok {
		close(existing.Send)
	}

	h.clients[client.ID] = client
	log.Printf("Client connected: %s", client.ID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[client.ID]; ok && current == client {
		delete(h.clients, client.ID)
		close(client.Send)
		log.Printf("Client disconnected: %s", client.ID)
	}
}

// BroadcastToUser sends an event to a specific user
func (h *Hub) BroadcastToUser(userID string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	h.send(userID, data)
}

// BroadcastToChat sends an event to every member of the chat except
// excludeUserID (typically the sender).
func (h *Hub) BroadcastToChat(ctx context.Context, chatID, excludeUserID string, event Event) {
	memberIDs, err := h.resolver.MemberIDs(ctx, chatID)
	if err != nil {
		log.Printf("Failed to resolve chat members: %v", err)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, userID := range memberIDs {
		if userID == excludeUserID {
			continue
		}
		h.send(userID, data)
	}
}

// send delivers to a single client without blocking. Callers hold h.mu.
func (h *Hub) send(userID string, data []byte) {
	client, ok := h.clients[userID]
	if !ok {
		return
	}
	select {
	case client.Send <- data:
	default:
		log.Printf("Failed to send event to client: %s", userID)
	}
}

// IsUserOnline checks if a user is currently connected
func (h *Hub) IsUserOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.clients[userID]
	return ok
}

// OnlineCount returns the number of currently connected clients
func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// NewEvent wraps a payload into a timestamped event
func NewEvent(eventType EventType, payload interface{}) Event {
	return Event{Type: eventType, Payload: payload, Timestamp: time.Now()}
}
