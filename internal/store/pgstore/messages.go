package pgstore

import (
	"context"

	"ngobrol/server/internal/apperrors"
	"ngobrol/server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageStore persists the append-only message log.
type MessageStore struct {
	pool *pgxpool.Pool
}

func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

// Append inserts a message and moves the owning chat's latest-message
// pointer to it. Both writes commit in one transaction, so the pointer can
// never lag behind the log.
func (s *MessageStore) Append(ctx context.Context, senderID, chatID, content string) (*models.Message, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to send message", err)
	}
	defer tx.Rollback(ctx)

	var msg models.Message
	err = tx.QueryRow(ctx, `
		INSERT INTO messages (id, chat_id, sender_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, chat_id, content, created_at
	`, uuid.NewString(), chatID, senderID, content).
		Scan(&msg.ID, &msg.ChatID, &msg.Content, &msg.CreatedAt)
	if err != nil {
		if pgErrCode(err) == foreignKeyViolation {
			return nil, apperrors.NotFound("Chat Not Found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to send message", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE chats SET latest_message_id = $1, updated_at = now() WHERE id = $2
	`, msg.ID, chatID); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to update latest message", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to send message", err)
	}

	// Enrich with the sender's public fields
	err = s.pool.QueryRow(ctx, `
		SELECT id, name, email, avatar FROM users WHERE id = $1
	`, senderID).Scan(&msg.Sender.ID, &msg.Sender.Name, &msg.Sender.Email, &msg.Sender.Avatar)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load sender", err)
	}

	return &msg, nil
}

// ListForChat returns every message of the chat, oldest first, each enriched
// with its sender's public fields.
func (s *MessageStore) ListForChat(ctx context.Context, chatID string) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.id, m.chat_id, m.content, m.created_at,
		       u.id, u.name, u.email, u.avatar
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.chat_id = $1
		ORDER BY m.created_at, m.id
	`, chatID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load messages", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		err := rows.Scan(&m.ID, &m.ChatID, &m.Content, &m.CreatedAt,
			&m.Sender.ID, &m.Sender.Name, &m.Sender.Email, &m.Sender.Avatar)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to scan message", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
