package httpserver

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"taskpilot/internal/handler"
	"taskpilot/pkg/metrics"
	"taskpilot/pkg/mq"
)

func NewRouter(
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	assistantHandler *handler.AssistantHandler,
	notificationHandler *handler.NotificationHandler,
	jwtSecret string,
	logger *zap.Logger,
	db *pgxpool.Pool,
	publisher *mq.Publisher,
) *gin.Engine {
	r := gin.Default()

	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
		metrics.RecordHTTPRequestDuration(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
			latency,
		)
	})

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		if publisher != nil && !publisher.IsConnected() {
			c.JSON(500, gin.H{"status": "mq_not_ready"})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.GET("/tasks", taskHandler.ListTasks)
		auth.POST("/tasks", taskHandler.CreateTask)
		auth.GET("/tasks/:id", taskHandler.GetTask)
		auth.PATCH("/tasks/:id", taskHandler.UpdateTask)
		auth.DELETE("/tasks/:id", taskHandler.DeleteTask)

		auth.POST("/assistant/chat", assistantHandler.Chat)

		auth.GET("/notifications", notificationHandler.ListNotifications)
		auth.POST("/notifications/:id/read", notificationHandler.MarkRead)
	}

	return r
}
