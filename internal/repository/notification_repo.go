package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskpilot/internal/model"
)

type NotificationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewNotificationRepository(db *pgxpool.Pool, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{db: db, logger: logger}
}

func (r *NotificationRepository) Insert(ctx context.Context, n *model.Notification) error {
	query := `
        INSERT INTO notifications (user_id, type, content, read, created_at)
        VALUES ($1, $2, $3, FALSE, $4)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query, n.UserID, n.Type, n.Content, time.Now()).Scan(&n.ID)
	if err != nil {
		r.logger.Error("Failed to insert notification",
			zap.Error(err),
			zap.Int("user_id", n.UserID),
			zap.String("type", n.Type),
		)
		return err
	}
	r.logger.Info("Notification created",
		zap.Int("notification_id", n.ID),
		zap.Int("user_id", n.UserID),
		zap.String("type", n.Type),
	)
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
        SELECT id, user_id, type, content, read, created_at
        FROM notifications
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		r.logger.Error("Failed to query notifications",
			zap.Error(err),
			zap.Int("user_id", userID),
		)
		return nil, err
	}
	defer rows.Close()

	notifications := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Content, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id int, userID int) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error("Failed to mark notification read",
			zap.Error(err),
			zap.Int("notification_id", id),
		)
	}
	return err
}
