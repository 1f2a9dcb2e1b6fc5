package models

import "time"

// Message represents a chat message. Messages are immutable once created.
type Message struct {
	ID        string       `json:"id" db:"id"`
	ChatID    string       `json:"chatId" db:"chat_id"`
	Sender    UserResponse `json:"sender"`
	Content   string       `json:"content" db:"content"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
}
