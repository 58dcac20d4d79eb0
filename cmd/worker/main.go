package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"taskpilot/internal/config"
	"taskpilot/internal/mqhandler"
	"taskpilot/internal/repository"
	"taskpilot/internal/service/reminder"
	"taskpilot/internal/util"
	"taskpilot/pkg/db"
	"taskpilot/pkg/logger"
	"taskpilot/pkg/mq"
	redisclient "taskpilot/pkg/redis"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting taskpilot worker...",
		zap.String("db_host", cfg.DB.Host),
		zap.String("mq_url", cfg.MQ.URL),
	)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()
	log.Info("Database connection established")

	// Redis
	rdb := redisclient.NewRedisClient(cfg.Redis)
	defer rdb.Close()

	deduper := util.NewDeduper(rdb, time.Hour, log)

	// Repositories
	taskRepo := repository.NewTaskRepository(dbConn, log)
	notificationRepo := repository.NewNotificationRepository(dbConn, log)

	// MQ Publisher for the scheduler
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Handlers
	reminderDueHandler := mqhandler.NewReminderDueHandler(notificationRepo, log, deduper)
	taskOverdueHandler := mqhandler.NewTaskOverdueHandler(notificationRepo, log, deduper)
	taskCreatedHandler := mqhandler.NewTaskCreatedHandler(notificationRepo, log, deduper)

	// (1) Consumer for reminder.due
	log.Info("Initializing reminder.due consumer", zap.String("queue", "reminder.due.q"))
	reminderConsumer, err := mq.NewConsumer(cfg.MQ.URL, "reminder.due.q", "reminder.due", log)
	if err != nil {
		log.Fatal("Failed to init reminder consumer", zap.Error(err))
	}
	defer reminderConsumer.Close()
	reminderConsumer.SetHandler(reminderDueHandler.Handle)
	go func() {
		log.Info("Starting reminder.due consumer...")
		if err := reminderConsumer.StartConsuming(); err != nil {
			log.Fatal("Reminder consumer failed", zap.Error(err))
		}
	}()

	// (2) Consumer for task.overdue
	log.Info("Initializing task.overdue consumer", zap.String("queue", "task.overdue.q"))
	overdueConsumer, err := mq.NewConsumer(cfg.MQ.URL, "task.overdue.q", "task.overdue", log)
	if err != nil {
		log.Fatal("Failed to init overdue consumer", zap.Error(err))
	}
	defer overdueConsumer.Close()
	overdueConsumer.SetHandler(taskOverdueHandler.Handle)
	go func() {
		log.Info("Starting task.overdue consumer...")
		if err := overdueConsumer.StartConsuming(); err != nil {
			log.Fatal("Overdue consumer failed", zap.Error(err))
		}
	}()

	// (3) Consumer for task.created
	log.Info("Initializing task.created consumer", zap.String("queue", "task.created.q"))
	createdConsumer, err := mq.NewConsumer(cfg.MQ.URL, "task.created.q", "task.created", log)
	if err != nil {
		log.Fatal("Failed to init created consumer", zap.Error(err))
	}
	defer createdConsumer.Close()
	createdConsumer.SetHandler(taskCreatedHandler.Handle)
	go func() {
		log.Info("Starting task.created consumer...")
		if err := createdConsumer.StartConsuming(); err != nil {
			log.Fatal("Created consumer failed", zap.Error(err))
		}
	}()

	// Reminder scheduler
	interval := time.Duration(cfg.Reminder.PollIntervalSeconds) * time.Second
	log.Info("Starting reminder scheduler", zap.Duration("interval", interval))

	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()

	scheduler := reminder.NewScheduler(taskRepo, publisher, log)
	go scheduler.Run(schedCtx, interval)

	log.Info("All consumers started, worker is ready to process messages")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down worker gracefully...")

	schedCancel()
	reminderConsumer.Stop()
	overdueConsumer.Stop()
	createdConsumer.Stop()

	log.Info("Worker shutdown complete")
}
