// Package store defines the persistence interfaces the handlers depend on.
package store

import (
	"context"

	"ngobrol/server/internal/models"
)

// UserStore persists user identities and exposes lookups for authentication
// and search.
type UserStore interface {
	// Create inserts a new user. passwordHash may be empty for
	// externally-authenticated identities. Fails with a Conflict error
	// when the email is already registered.
	Create(ctx context.Context, name, email, passwordHash, avatar string) (*models.User, error)

	// FindByEmail returns (nil, nil) when no user has the given email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByID returns (nil, nil) when the id is unknown.
	FindByID(ctx context.Context, id string) (*models.User, error)

	// Search matches keyword case-insensitively against name or email,
	// excluding the user with excludeID. An empty keyword matches everyone.
	Search(ctx context.Context, keyword, excludeID string) ([]models.UserResponse, error)
}

// ChatStore persists chats and their memberships.
type ChatStore interface {
	// FindOrCreateDirect returns the one-to-one chat for the unordered
	// pair {callerID, otherID}, creating it if absent. Concurrent callers
	// racing on creation both receive the same chat.
	FindOrCreateDirect(ctx context.Context, callerID, otherID string) (*models.Chat, error)

	// ListForUser returns all chats the user is a member of, enriched and
	// sorted by most recent activity first.
	ListForUser(ctx context.Context, userID string) ([]models.Chat, error)

	// CreateGroup creates a group chat. memberIDs must not include the
	// creator; the creator is added as member and admin.
	CreateGroup(ctx context.Context, name string, memberIDs []string, creatorID string) (*models.Chat, error)

	Rename(ctx context.Context, chatID, newName string) (*models.Chat, error)
	AddMember(ctx context.Context, chatID, userID string) (*models.Chat, error)
	RemoveMember(ctx context.Context, chatID, userID string) (*models.Chat, error)

	// GetByID returns (nil, nil) when the chat is unknown.
	GetByID(ctx context.Context, chatID string) (*models.Chat, error)

	IsMember(ctx context.Context, chatID, userID string) (bool, error)
	MemberIDs(ctx context.Context, chatID string) ([]string, error)
}

// MessageStore persists the append-only message log.
type MessageStore interface {
	// Append stores a new message and moves the owning chat's
	// latest-message pointer to it in the same transaction.
	Append(ctx context.Context, senderID, chatID, content string) (*models.Message, error)

	// ListForChat returns all messages of the chat, oldest first.
	ListForChat(ctx context.Context, chatID string) ([]models.Message, error)
}
