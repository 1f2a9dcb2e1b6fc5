package pgstore

import (
	"context"
	"errors"

	"ngobrol/server/internal/apperrors"
	"ngobrol/server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatStore persists chats and their membership lists.
type ChatStore struct {
	pool *pgxpool.Pool
}

func NewChatStore(pool *pgxpool.Pool) *ChatStore {
	return &ChatStore{pool: pool}
}

// directKey normalizes an unordered user pair into the unique key stored on
// one-to-one chats.
func directKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// FindOrCreateDirect returns the one-to-one chat between the two users,
// creating it when absent. A concurrent creator winning the race is handled
// by re-querying on the unique violation, so both callers get the same chat.
func (s *ChatStore) FindOrCreateDirect(ctx context.Context, callerID, otherID string) (*models.Chat, error) {
	key := directKey(callerID, otherID)

	var id string
	err := s.pool.QueryRow(ctx, `SELECT id FROM chats WHERE direct_key = $1`, key).Scan(&id)
	if err == nil {
		return s.GetByID(ctx, id)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to look up chat", err)
	}

	id, err = s.createDirect(ctx, key, callerID, otherID)
	if err != nil {
		if pgErrCode(err) == uniqueViolation {
			// Lost the race: the chat exists now, return it
			if qerr := s.pool.QueryRow(ctx, `SELECT id FROM chats WHERE direct_key = $1`, key).Scan(&id); qerr != nil {
				return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to look up chat", qerr)
			}
			return s.GetByID(ctx, id)
		}
		if pgErrCode(err) == foreignKeyViolation {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create chat", err)
	}

	return s.GetByID(ctx, id)
}

func (s *ChatStore) createDirect(ctx context.Context, key, callerID, otherID string) (string, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	id := uuid.NewString()
	if _, err := tx.Exec(ctx, `
		INSERT INTO chats (id, is_group, direct_key) VALUES ($1, FALSE, $2)
	`, id, key); err != nil {
		return "", err
	}

	// Caller first, then the other user: member order is insertion order
	for _, userID := range []string{callerID, otherID} {
		if _, err := tx.Exec(ctx, `
			INSERT INTO chat_members (chat_id, user_id) VALUES ($1, $2)
		`, id, userID); err != nil {
			return "", err
		}
	}

	return id, tx.Commit(ctx)
}

// CreateGroup creates a group chat with the creator appended to the member
// list and set as admin.
func (s *ChatStore) CreateGroup(ctx context.Context, name string, memberIDs []string, creatorID string) (*models.Chat, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create group chat", err)
	}
	defer tx.Rollback(ctx)

	id := uuid.NewString()
	if _, err := tx.Exec(ctx, `
		INSERT INTO chats (id, name, is_group, admin_id) VALUES ($1, $2, TRUE, $3)
	`, id, name, creatorID); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create group chat", err)
	}

	for _, userID := range append(append([]string{}, memberIDs...), creatorID) {
		if _, err := tx.Exec(ctx, `
			INSERT INTO chat_members (chat_id, user_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, id, userID); err != nil {
			if pgErrCode(err) == foreignKeyViolation {
				return nil, apperrors.NotFound("User not found")
			}
			return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to add group member", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create group chat", err)
	}

	return s.GetByID(ctx, id)
}

func (s *ChatStore) Rename(ctx context.Context, chatID, newName string) (*models.Chat, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE chats SET name = $1, updated_at = now() WHERE id = $2
	`, newName, chatID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to rename chat", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.NotFound("Chat Not Found")
	}

	return s.GetByID(ctx, chatID)
}

// AddMember adds a user to the chat's member list. Adding an existing member
// is a no-op.
func (s *ChatStore) AddMember(ctx context.Context, chatID, userID string) (*models.Chat, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to add member", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE chats SET updated_at = now() WHERE id = $1`, chatID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to add member", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.NotFound("Chat Not Found")
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO chat_members (chat_id, user_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, chatID, userID); err != nil {
		if pgErrCode(err) == foreignKeyViolation {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to add member", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to add member", err)
	}

	return s.GetByID(ctx, chatID)
}

func (s *ChatStore) RemoveMember(ctx context.Context, chatID, userID string) (*models.Chat, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to remove member", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE chats SET updated_at = now() WHERE id = $1`, chatID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to remove member", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.NotFound("Chat Not Found")
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM chat_members WHERE chat_id = $1 AND user_id = $2
	`, chatID, userID); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to remove member", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to remove member", err)
	}

	return s.GetByID(ctx, chatID)
}

// ListForUser returns the user's chats, most recently updated first, with
// members, group admin, and latest message enriched.
func (s *ChatStore) ListForUser(ctx context.Context, userID string) ([]models.Chat, error) {
	return s.queryChats(ctx, selectChats+`
		JOIN chat_members cm ON cm.chat_id = c.id
		WHERE cm.user_id = $1
		ORDER BY c.updated_at DESC
	`, userID)
}

// GetByID returns (nil, nil) for an unknown chat.
func (s *ChatStore) GetByID(ctx context.Context, chatID string) (*models.Chat, error) {
	chats, err := s.queryChats(ctx, selectChats+` WHERE c.id = $1`, chatID)
	if err != nil {
		return nil, err
	}
	if len(chats) == 0 {
		return nil, nil
	}
	return &chats[0], nil
}

func (s *ChatStore) IsMember(ctx context.Context, chatID, userID string) (bool, error) {
	var isMember bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM chat_members WHERE chat_id = $1 AND user_id = $2)
	`, chatID, userID).Scan(&isMember)
	if err != nil {
		return false, apperrors.Wrap(apperrors.CodeInternal, "failed to check membership", err)
	}
	return isMember, nil
}

func (s *ChatStore) MemberIDs(ctx context.Context, chatID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id FROM chat_members WHERE chat_id = $1 ORDER BY seq
	`, chatID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list members", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to scan member", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// selectChats joins the group admin and the latest message (with its sender)
// onto each chat row. Member lists are filled in by a second query.
const selectChats = `
	SELECT c.id, c.name, c.is_group, c.created_at, c.updated_at,
	       a.id, a.name, a.email, a.avatar,
	       m.id, m.chat_id, m.content, m.created_at,
	       mu.id, mu.name, mu.email, mu.avatar
	FROM chats c
	LEFT JOIN users a ON a.id = c.admin_id
	LEFT JOIN messages m ON m.id = c.latest_message_id
	LEFT JOIN users mu ON mu.id = m.sender_id
`

func (s *ChatStore) queryChats(ctx context.Context, query string, args ...any) ([]models.Chat, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to query chats", err)
	}
	defer rows.Close()

	var chats []models.Chat
	var chatIDs []string

	for rows.Next() {
		var c models.Chat
		var admin nullableUser
		var msg nullableMessage
		var sender nullableUser

		err := rows.Scan(
			&c.ID, &c.Name, &c.IsGroupChat, &c.CreatedAt, &c.UpdatedAt,
			&admin.ID, &admin.Name, &admin.Email, &admin.Avatar,
			&msg.ID, &msg.ChatID, &msg.Content, &msg.CreatedAt,
			&sender.ID, &sender.Name, &sender.Email, &sender.Avatar,
		)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to scan chat", err)
		}

		if c.IsGroupChat {
			c.GroupAdmin = admin.toResponse()
		}
		if m := msg.toMessage(); m != nil {
			if snd := sender.toResponse(); snd != nil {
				m.Sender = *snd
			}
			c.LatestMessage = m
		}

		chats = append(chats, c)
		chatIDs = append(chatIDs, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to query chats", err)
	}

	if len(chats) == 0 {
		return []models.Chat{}, nil
	}

	members, err := s.loadMembers(ctx, chatIDs)
	if err != nil {
		return nil, err
	}
	for i := range chats {
		chats[i].Users = members[chats[i].ID]
	}

	return chats, nil
}

// loadMembers fetches the member lists of the given chats in one query,
// preserving insertion order.
func (s *ChatStore) loadMembers(ctx context.Context, chatIDs []string) (map[string][]models.UserResponse, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT cm.chat_id, u.id, u.name, u.email, u.avatar
		FROM chat_members cm
		JOIN users u ON u.id = cm.user_id
		WHERE cm.chat_id = ANY($1)
		ORDER BY cm.seq
	`, chatIDs)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load members", err)
	}
	defer rows.Close()

	members := make(map[string][]models.UserResponse, len(chatIDs))
	for rows.Next() {
		var chatID string
		var u models.UserResponse
		if err := rows.Scan(&chatID, &u.ID, &u.Name, &u.Email, &u.Avatar); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to scan member", err)
		}
		members[chatID] = append(members[chatID], u)
	}

	return members, rows.Err()
}
