package logger

import (
	"go.uber.org/zap"
)

var Log *zap.Logger

func NewLogger() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	Log = l
	return l
}

// WithUser returns a logger that tags every entry with the acting user.
func WithUser(userID int, logger *zap.Logger) *zap.Logger {
	if userID == 0 {
		return logger
	}
	return logger.With(zap.Int("user_id", userID))
}
