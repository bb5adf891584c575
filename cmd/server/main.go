package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/kasaapp/kasa/internal/api"
	"github.com/kasaapp/kasa/internal/config"
	"github.com/kasaapp/kasa/internal/db"
	"github.com/kasaapp/kasa/internal/middleware"
	"github.com/kasaapp/kasa/internal/tasks"
	"github.com/kasaapp/kasa/internal/ws"
	"github.com/kasaapp/kasa/pkg/logging"
)

func main() {
	logging.Setup()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database connection
	database, err := db.Connect(cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Initialize Redis client; calculation caching is disabled without it
	redisClient, err := db.ConnectRedis(cfg.Redis)
	if err != nil {
		slog.Warn("failed to connect to redis, caching disabled", "error", err)
		redisClient = nil
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// Initialize scheduled tasks
	taskManager := tasks.NewManager(database, wsHub)
	taskManager.StartScheduledTasks()
	defer taskManager.StopAllTasks()

	// Initialize router
	router := api.SetupRouter(database, redisClient, wsHub, cfg)

	// Set up CORS
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Stripe-Signature"},
		AllowCredentials: true,
	})

	handler := corsMiddleware.Handler(middleware.RequestLogging(middleware.Metrics(router)))

	slog.Info("server starting", "port", cfg.Server.Port)
	if err := http.ListenAndServe(":"+cfg.Server.Port, handler); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
