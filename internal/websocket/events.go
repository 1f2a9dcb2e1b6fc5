package websocket

import "time"

// EventType represents different WebSocket event types
type EventType string

const (
	// Message events
	EventMessageReceived EventType = "message_received"

	// Typing events
	EventTypingStart EventType = "typing_start"
	EventTypingStop  EventType = "typing_stop"

	// Error events
	EventError EventType = "error"
)

// Event represents an outgoing WebSocket message
type Event struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// TypingPayload represents typing indicator payload
type TypingPayload struct {
	UserID string `json:"userId"`
	ChatID string `json:"chatId"`
}

// IncomingEvent represents messages received from clients
type IncomingEvent struct {
	Type    EventType              `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}
