package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskpilot/internal/model"
	"taskpilot/internal/service/task"
)

type TaskHandler struct {
	taskService *task.Service
	logger      *zap.Logger
}

func NewTaskHandler(taskService *task.Service, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, logger: logger}
}

// getUserID reads the authenticated user set by the auth middleware.
func getUserID(c *gin.Context) (int, bool) {
	userID, ok := c.Get("user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return 0, false
	}
	return userID.(int), true
}

type createTaskRequest struct {
	Title         string          `json:"title" binding:"required"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
	Priority      string          `json:"priority"`
	DueDate       time.Time       `json:"due_date"`
	AssignedTo    []string        `json:"assigned_to"`
	Tags          []string        `json:"tags"`
	AttachmentURL string          `json:"attachment_url"`
	Reminder      *model.Reminder `json:"reminder"`
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	t := &model.Task{
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
		AssignedTo:    req.AssignedTo,
		Tags:          req.Tags,
		AttachmentURL: req.AttachmentURL,
		Reminder:      req.Reminder,
	}

	created, err := h.taskService.Create(c.Request.Context(), userID, t, task.SourceAPI)
	if err != nil {
		h.logger.Error("CreateTask: failed",
			zap.Int("user_id", userID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	h.logger.Info("CreateTask: success",
		zap.Int("user_id", userID),
		zap.String("task_id", created.ID),
	)
	c.JSON(http.StatusCreated, created)
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	filter := c.Query("filter")
	search := c.Query("search")
	sortBy := c.Query("sort")

	tasks, err := h.taskService.List(c.Request.Context(), userID, filter, search, sortBy)
	if err != nil {
		h.logger.Error("ListTasks: failed to fetch tasks",
			zap.Int("user_id", userID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch tasks"})
		return
	}

	h.logger.Info("ListTasks: success",
		zap.Int("user_id", userID),
		zap.Int("task_count", len(tasks)),
	)
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	t, err := h.taskService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var patch model.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if patch.Status != nil && !model.ValidStatus(*patch.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	if patch.Priority != nil && !model.ValidPriority(*patch.Priority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
		return
	}

	id := c.Param("id")
	updated, err := h.taskService.Update(c.Request.Context(), userID, id, patch)
	if err != nil {
		h.logger.Error("UpdateTask: failed",
			zap.Int("user_id", userID),
			zap.String("task_id", id),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := h.taskService.Delete(c.Request.Context(), userID, id); err != nil {
		h.logger.Error("DeleteTask: failed",
			zap.Int("user_id", userID),
			zap.String("task_id", id),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
