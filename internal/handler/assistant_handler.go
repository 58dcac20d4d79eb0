package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskpilot/internal/llm"
	"taskpilot/internal/service/assistant"
)

type AssistantHandler struct {
	assistantService *assistant.Service
	logger           *zap.Logger
}

func NewAssistantHandler(assistantService *assistant.Service, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService, logger: logger}
}

// Chat handles POST /assistant/chat: one natural-language command in, one
// chat reply out.
func (h *AssistantHandler) Chat(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message required"})
		return
	}

	h.logger.Info("Assistant chat request received",
		zap.Int("user_id", userID),
		zap.Int("message_length", len(req.Message)),
	)

	reply, err := h.assistantService.InterpretAndExecute(c.Request.Context(), userID, req.Message)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"reply": assistant.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// statusFor maps pipeline errors onto HTTP statuses. The body always
// carries a chat-ready message, so clients can show the reply either way.
func statusFor(err error) int {
	var notFound *assistant.TargetNotFoundError
	switch {
	case errors.Is(err, llm.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, llm.ErrModelUnavailable):
		return http.StatusBadGateway
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
