package main

import (
	"context"
	"log"

	"ngobrol/server/internal/auth"
	"ngobrol/server/internal/config"
	"ngobrol/server/internal/database"
	"ngobrol/server/internal/handlers"
	"ngobrol/server/internal/middleware"
	"ngobrol/server/internal/routes"
	"ngobrol/server/internal/store/pgstore"
	ws "ngobrol/server/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database and apply migrations
	pool, err := database.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Wire stores, token issuer, and the WebSocket hub
	users := pgstore.NewUserStore(pool)
	chats := pgstore.NewChatStore(pool)
	messages := pgstore.NewMessageStore(pool)

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	hub := ws.NewHub(chats)
	go hub.Run()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Ngobrol API v1.0",
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowCredentials: true,
	}))

	// Setup routes
	routes.SetupRoutes(app, &routes.Deps{
		Users:    &handlers.UserHandler{Users: users, Issuer: issuer},
		Chats:    &handlers.ChatHandler{Chats: chats},
		Messages: &handlers.MessageHandler{Messages: messages, Chats: chats, Hub: hub},
		WS:       &handlers.WSHandler{Hub: hub},
		Protect:  middleware.Protect(issuer, users),
	})

	log.Printf("🚀 Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
