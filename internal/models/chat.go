package models

import "time"

// Chat represents a conversation, either one-to-one or a group.
// Users preserves insertion order. GroupAdmin is set only for group chats.
type Chat struct {
	ID            string         `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	IsGroupChat   bool           `json:"isGroupChat" db:"is_group"`
	Users         []UserResponse `json:"users"`
	GroupAdmin    *UserResponse  `json:"groupAdmin,omitempty"`
	LatestMessage *Message       `json:"latestMessage,omitempty"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" db:"updated_at"`
}
