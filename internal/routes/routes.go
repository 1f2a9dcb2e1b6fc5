package routes

import (
	"ngobrol/server/internal/handlers"
	"ngobrol/server/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Deps carries the wired handlers and middleware into route registration.
type Deps struct {
	Users    *handlers.UserHandler
	Chats    *handlers.ChatHandler
	Messages *handlers.MessageHandler
	WS       *handlers.WSHandler
	Protect  fiber.Handler
}

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, d *Deps) {
	api := app.Group("/api")

	// Health check (public)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Ngobrol API is running",
		})
	})

	// User routes (registration and login are public)
	user := api.Group("/user")
	user.Post("/", middleware.StrictRateLimiter(), d.Users.Register)
	user.Post("/login", middleware.StrictRateLimiter(), d.Users.Login)
	user.Get("/", d.Protect, d.Users.Search)

	// Chat routes (protected, per-user rate limit)
	chat := api.Group("/chat", d.Protect, middleware.ModerateRateLimiter())
	chat.Post("/", d.Chats.AccessChat)
	chat.Get("/", d.Chats.FetchChats)
	chat.Post("/group", d.Chats.CreateGroup)
	chat.Put("/rename", d.Chats.Rename)
	chat.Put("/groupadd", d.Chats.AddToGroup)
	chat.Put("/groupremove", d.Chats.RemoveFromGroup)

	// Message routes (protected, per-user rate limit)
	message := api.Group("/message", d.Protect, middleware.ModerateRateLimiter())
	message.Post("/", d.Messages.Send)
	message.Get("/:chatId", d.Messages.List)

	// WebSocket route (protected)
	api.Get("/ws", d.Protect, d.WS.Upgrade, websocket.New(d.WS.Handle))

	// WebSocket stats (protected, for debugging)
	api.Get("/ws/stats", d.Protect, d.WS.Stats)
}
