package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"taskpilot/internal/config"
	"taskpilot/internal/handler"
	"taskpilot/internal/httpserver"
	"taskpilot/internal/llm"
	"taskpilot/internal/repository"
	"taskpilot/internal/service/assistant"
	"taskpilot/internal/service/auth"
	"taskpilot/internal/service/task"
	"taskpilot/internal/util"
	"taskpilot/pkg/db"
	"taskpilot/pkg/logger"
	"taskpilot/pkg/mq"
	redisclient "taskpilot/pkg/redis"
)

func main() {
	// .env is optional, real deployments use the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting taskpilot server...",
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
		zap.String("mq_url", cfg.MQ.URL),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	// DB
	log.Info("Initializing database connection...")
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()
	log.Info("Database connection established successfully")

	// Redis
	rdb := redisclient.NewRedisClient(cfg.Redis)
	defer rdb.Close()

	// MQ Publisher
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Repositories
	userRepo := repository.NewUserRepository(dbConn, log)
	taskRepo := repository.NewTaskRepository(dbConn, log)
	notificationRepo := repository.NewNotificationRepository(dbConn, log)

	// Services
	authService := auth.NewService(userRepo, cfg.JWT.Secret)
	taskService := task.NewService(taskRepo, publisher, log)

	llmClient, err := llm.NewClient(cfg.AI)
	if err != nil {
		log.Fatal("Failed to init LLM client", zap.Error(err))
	}

	limiter := util.NewRateLimiter(rdb, cfg.Assistant.RateLimitPerMinute, time.Minute)
	assistantService := assistant.NewService(
		llmClient,
		taskService,
		limiter,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second,
		log,
	)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, log)
	taskHandler := handler.NewTaskHandler(taskService, log)
	assistantHandler := handler.NewAssistantHandler(assistantService, log)
	notificationHandler := handler.NewNotificationHandler(notificationRepo, log)

	router := httpserver.NewRouter(
		authHandler,
		taskHandler,
		assistantHandler,
		notificationHandler,
		cfg.JWT.Secret,
		log,
		dbConn,
		publisher,
	)

	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("taskpilot server is fully initialized and running",
		zap.String("http_port", port),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("Closing database connection...")
	dbConn.Close()

	log.Info("Server shutdown complete")
}
