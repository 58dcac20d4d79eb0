package task

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskpilot/contracts/mq"
	"taskpilot/internal/model"
	"taskpilot/internal/repository"
	"taskpilot/internal/service/assistant"
	pkgmq "taskpilot/pkg/mq"
)

// List filters, mirroring the sidebar views in the web client.
const (
	FilterAll       = "all"
	FilterToday     = "today"
	FilterOverdue   = "overdue"
	FilterHigh      = "high-priority"
	FilterShared    = "shared"
	FilterCompleted = "completed"
)

var ErrNotFound = errors.New("task not found")

// Creation sources carried on the task.created event.
const (
	SourceAPI       = "api"
	SourceAssistant = "assistant"
)

type Service struct {
	repo      *repository.TaskRepository
	publisher *pkgmq.Publisher
	logger    *zap.Logger
}

func NewService(repo *repository.TaskRepository, publisher *pkgmq.Publisher, logger *zap.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// Create persists a new task for the user and publishes task.created.
func (s *Service) Create(ctx context.Context, userID int, t *model.Task, source string) (*model.Task, error) {
	t.ID = uuid.New().String()
	t.UserID = userID
	if !model.ValidStatus(t.Status) {
		t.Status = model.StatusTodo
	}
	if !model.ValidPriority(t.Priority) {
		t.Priority = model.PriorityMedium
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	if err := s.repo.Insert(ctx, t); err != nil {
		return nil, err
	}

	s.publishCreated(t, source)
	return t, nil
}

// List returns the user's tasks, optionally narrowed by a view filter and a
// free-text search over title and description, ordered per sortBy (newest
// first by default).
func (s *Service) List(ctx context.Context, userID int, filter, search, sortBy string) ([]model.Task, error) {
	tasks, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tasks = applyFilter(tasks, filter, time.Now())

	if q := strings.TrimSpace(search); q != "" {
		needle := strings.ToLower(q)
		filtered := tasks[:0]
		for _, t := range tasks {
			if strings.Contains(strings.ToLower(t.Title), needle) ||
				strings.Contains(strings.ToLower(t.Description), needle) {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	applySort(tasks, sortBy)
	return tasks, nil
}

var priorityRank = map[string]int{
	model.PriorityHigh:   0,
	model.PriorityMedium: 1,
	model.PriorityLow:    2,
}

func applySort(tasks []model.Task, sortBy string) {
	switch sortBy {
	case "due_date":
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].DueDate.Before(tasks[j].DueDate)
		})
	case "priority":
		sort.SliceStable(tasks, func(i, j int) bool {
			return priorityRank[tasks[i].Priority] < priorityRank[tasks[j].Priority]
		})
	case "title":
		sort.SliceStable(tasks, func(i, j int) bool {
			return strings.ToLower(tasks[i].Title) < strings.ToLower(tasks[j].Title)
		})
	default:
		// Repository order: created_at DESC.
	}
}

func (s *Service) Get(ctx context.Context, userID int, id string) (*model.Task, error) {
	t, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, ErrNotFound
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, userID int, id string, patch model.TaskPatch) (*model.Task, error) {
	if patch.IsEmpty() {
		return s.Get(ctx, userID, id)
	}
	if err := s.repo.Update(ctx, id, userID, patch); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

func (s *Service) Delete(ctx context.Context, userID int, id string) error {
	return s.repo.Delete(ctx, id, userID)
}

func (s *Service) publishCreated(t *model.Task, source string) {
	if s.publisher == nil {
		return
	}
	payload := mq.TaskCreatedPayload{
		TaskID: t.ID,
		UserID: t.UserID,
		Title:  t.Title,
		Source: source,
	}
	if err := s.publisher.Publish("task.created", payload); err != nil {
		// Events are best-effort: the task is already persisted.
		s.logger.Warn("Failed to publish task.created",
			zap.String("task_id", t.ID),
			zap.Error(err),
		)
	}
}

func applyFilter(tasks []model.Task, filter string, now time.Time) []model.Task {
	if filter == "" || filter == FilterAll {
		return tasks
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	keep := func(t model.Task) bool {
		switch filter {
		case FilterToday:
			return !t.DueDate.Before(today) && t.DueDate.Before(tomorrow)
		case FilterOverdue:
			return t.DueDate.Before(today) && t.Status != model.StatusCompleted
		case FilterHigh:
			return t.Priority == model.PriorityHigh
		case FilterShared:
			return len(t.AssignedTo) > 0
		case FilterCompleted:
			return t.Status == model.StatusCompleted
		default:
			return true
		}
	}

	out := tasks[:0]
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// ForUser adapts the service into the per-user store the assistant
// executor works against.
func (s *Service) ForUser(userID int) assistant.TaskStore {
	return &userScope{svc: s, userID: userID}
}

type userScope struct {
	svc    *Service
	userID int
}

func (u *userScope) Insert(ctx context.Context, t *model.Task) (*model.Task, error) {
	return u.svc.Create(ctx, u.userID, t, SourceAssistant)
}

func (u *userScope) Update(ctx context.Context, id string, patch model.TaskPatch) error {
	return u.svc.repo.Update(ctx, id, u.userID, patch)
}

func (u *userScope) Delete(ctx context.Context, id string) error {
	return u.svc.repo.Delete(ctx, id, u.userID)
}

func (u *userScope) ListCurrent(ctx context.Context) ([]model.Task, error) {
	return u.svc.repo.ListByUser(ctx, u.userID)
}
