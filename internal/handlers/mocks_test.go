package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ngobrol/server/internal/apperrors"
	"ngobrol/server/internal/models"
)

// In-memory store fakes mirroring the pgstore semantics.

type memUserStore struct {
	mu   sync.Mutex
	byID map[string]*models.User
	seq  int
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byID: make(map[string]*models.User)}
}

func (s *memUserStore) Create(_ context.Context, name, email, passwordHash, avatar string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.byID {
		if u.Email == email {
			return nil, apperrors.Conflict("User already exists")
		}
	}

	s.seq++
	u := &models.User{
		ID:           fmt.Sprintf("u%d", s.seq),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Avatar:       avatar,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.byID[u.ID] = u
	return u, nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[id], nil
}

func (s *memUserStore) Search(_ context.Context, keyword, excludeID string) ([]models.UserResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kw := strings.ToLower(keyword)
	users := []models.UserResponse{}
	for _, u := range s.byID {
		if u.ID == excludeID {
			continue
		}
		if kw == "" || strings.Contains(strings.ToLower(u.Name), kw) || strings.Contains(strings.ToLower(u.Email), kw) {
			users = append(users, u.ToResponse())
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *memUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

type memChatStore struct {
	mu        sync.Mutex
	chats     map[string]*models.Chat
	directKey map[string]string
	seq       int
	clock     time.Time
}

func newMemChatStore() *memChatStore {
	return &memChatStore{
		chats:     make(map[string]*models.Chat),
		directKey: make(map[string]string),
		clock:     time.Now(),
	}
}

func (s *memChatStore) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func member(id string) models.UserResponse {
	return models.UserResponse{ID: id}
}

func (s *memChatStore) FindOrCreateDirect(_ context.Context, callerID, otherID string) (*models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, b := callerID, otherID
	if b < a {
		a, b = b, a
	}
	key := a + ":" + b

	if id, ok := s.directKey[key]; ok {
		return s.chats[id], nil
	}

	s.seq++
	now := s.tick()
	chat := &models.Chat{
		ID:        fmt.Sprintf("c%d", s.seq),
		Users:     []models.UserResponse{member(callerID), member(otherID)},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.chats[chat.ID] = chat
	s.directKey[key] = chat.ID
	return chat, nil
}

func (s *memChatStore) ListForUser(_ context.Context, userID string) ([]models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var chats []models.Chat
	for _, c := range s.chats {
		for _, m := range c.Users {
			if m.ID == userID {
				chats = append(chats, *c)
				break
			}
		}
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i].UpdatedAt.After(chats[j].UpdatedAt) })
	return chats, nil
}

func (s *memChatStore) CreateGroup(_ context.Context, name string, memberIDs []string, creatorID string) (*models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	now := s.tick()
	admin := member(creatorID)
	chat := &models.Chat{
		ID:          fmt.Sprintf("c%d", s.seq),
		Name:        name,
		IsGroupChat: true,
		GroupAdmin:  &admin,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, id := range memberIDs {
		chat.Users = append(chat.Users, member(id))
	}
	chat.Users = append(chat.Users, member(creatorID))
	s.chats[chat.ID] = chat
	return chat, nil
}

func (s *memChatStore) Rename(_ context.Context, chatID, newName string) (*models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[chatID]
	if !ok {
		return nil, apperrors.NotFound("Chat Not Found")
	}
	chat.Name = newName
	chat.UpdatedAt = s.tick()
	return chat, nil
}

func (s *memChatStore) AddMember(_ context.Context, chatID, userID string) (*models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[chatID]
	if !ok {
		return nil, apperrors.NotFound("Chat Not Found")
	}
	for _, m := range chat.Users {
		if m.ID == userID {
			return chat, nil // already a member
		}
	}
	chat.Users = append(chat.Users, member(userID))
	chat.UpdatedAt = s.tick()
	return chat, nil
}

func (s *memChatStore) RemoveMember(_ context.Context, chatID, userID string) (*models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[chatID]
	if !ok {
		return nil, apperrors.NotFound("Chat Not Found")
	}
	kept := chat.Users[:0]
	for _, m := range chat.Users {
		if m.ID != userID {
			kept = append(kept, m)
		}
	}
	chat.Users = kept
	chat.UpdatedAt = s.tick()
	return chat, nil
}

func (s *memChatStore) GetByID(_ context.Context, chatID string) (*models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[chatID]
	if !ok {
		return nil, nil
	}
	return chat, nil
}

func (s *memChatStore) IsMember(_ context.Context, chatID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[chatID]
	if !ok {
		return false, nil
	}
	for _, m := range chat.Users {
		if m.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memChatStore) MemberIDs(_ context.Context, chatID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[chatID]
	if !ok {
		return nil, nil
	}
	ids := make([]string, 0, len(chat.Users))
	for _, m := range chat.Users {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func (s *memChatStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chats)
}

type memMessageStore struct {
	mu     sync.Mutex
	chats  *memChatStore
	byChat map[string][]models.Message
	seq    int
}

func newMemMessageStore(chats *memChatStore) *memMessageStore {
	return &memMessageStore{chats: chats, byChat: make(map[string][]models.Message)}
}

func (s *memMessageStore) Append(_ context.Context, senderID, chatID, content string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chats.mu.Lock()
	chat, ok := s.chats.chats[chatID]
	if !ok {
		s.chats.mu.Unlock()
		return nil, apperrors.NotFound("Chat Not Found")
	}

	s.seq++
	msg := models.Message{
		ID:        fmt.Sprintf("m%d", s.seq),
		ChatID:    chatID,
		Sender:    member(senderID),
		Content:   content,
		CreatedAt: s.chats.tick(),
	}

	// Latest-message pointer moves with the append
	chat.LatestMessage = &msg
	chat.UpdatedAt = msg.CreatedAt
	s.chats.mu.Unlock()

	s.byChat[chatID] = append(s.byChat[chatID], msg)
	return &msg, nil
}

func (s *memMessageStore) ListForChat(_ context.Context, chatID string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Message{}, s.byChat[chatID]...), nil
}

func (s *memMessageStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, msgs := range s.byChat {
		n += len(msgs)
	}
	return n
}
