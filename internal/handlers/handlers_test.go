package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ngobrol/server/internal/auth"
	"ngobrol/server/internal/middleware"
	"ngobrol/server/internal/models"
	"ngobrol/server/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// fixtures wires the handlers against in-memory stores on the same routes
// the server registers.
type fixtures struct {
	app      *fiber.App
	users    *memUserStore
	chats    *memChatStore
	messages *memMessageStore
	issuer   *auth.Issuer
}

func newFixtures(t *testing.T) *fixtures {
	t.Helper()

	f := &fixtures{
		users:    newMemUserStore(),
		chats:    newMemChatStore(),
		issuer:   auth.NewIssuer("test-secret", time.Hour),
	}
	f.messages = newMemMessageStore(f.chats)

	userHandler := &UserHandler{Users: f.users, Issuer: f.issuer}
	chatHandler := &ChatHandler{Chats: f.chats}
	messageHandler := &MessageHandler{Messages: f.messages, Chats: f.chats}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	protect := middleware.Protect(f.issuer, f.users)

	api := app.Group("/api")
	user := api.Group("/user")
	user.Post("/", userHandler.Register)
	user.Post("/login", userHandler.Login)
	user.Get("/", protect, userHandler.Search)

	chat := api.Group("/chat", protect)
	chat.Post("/", chatHandler.AccessChat)
	chat.Get("/", chatHandler.FetchChats)
	chat.Post("/group", chatHandler.CreateGroup)
	chat.Put("/rename", chatHandler.Rename)
	chat.Put("/groupadd", chatHandler.AddToGroup)
	chat.Put("/groupremove", chatHandler.RemoveFromGroup)

	message := api.Group("/message", protect)
	message.Post("/", messageHandler.Send)
	message.Get("/:chatId", messageHandler.List)

	f.app = app
	return f
}

// seedUser creates a user directly in the store and returns it with a valid
// bearer token.
func (f *fixtures) seedUser(t *testing.T, name, email, password string) (*models.User, string) {
	t.Helper()

	hash := ""
	if password != "" {
		var err error
		hash, err = utils.HashPassword(password)
		require.NoError(t, err)
	}

	user, err := f.users.Create(context.Background(), name, email, hash, "")
	require.NoError(t, err)

	token, err := f.issuer.Issue(user.ID)
	require.NoError(t, err)

	return user, token
}

func (f *fixtures) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// envelope mirrors the response wrapper every endpoint uses.
type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, resp *http.Response) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	resp.Body.Close()
	return env
}

func decodeData(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	env := decode(t, resp)
	require.True(t, env.Success, "expected success envelope, got error: %s", env.Error)
	require.NoError(t, json.Unmarshal(env.Data, out))
}
