package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"taskpilot/internal/model"
)

// fakeStore is an in-memory TaskStore.
type fakeStore struct {
	tasks  []model.Task
	nextID int

	insertErr error
	updateErr error
	listErr   error
	// deleteFails holds ids whose deletion should fail.
	deleteFails map[string]bool
}

func newFakeStore(titles ...string) *fakeStore {
	f := &fakeStore{deleteFails: map[string]bool{}}
	for _, title := range titles {
		f.nextID++
		f.tasks = append(f.tasks, model.Task{
			ID:       fmt.Sprintf("task-%d", f.nextID),
			Title:    title,
			Status:   model.StatusTodo,
			Priority: model.PriorityMedium,
		})
	}
	return f
}

func (f *fakeStore) Insert(_ context.Context, t *model.Task) (*model.Task, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.nextID++
	t.ID = fmt.Sprintf("task-%d", f.nextID)
	f.tasks = append(f.tasks, *t)
	return t, nil
}

func (f *fakeStore) Update(_ context.Context, id string, patch model.TaskPatch) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID != id {
			continue
		}
		if patch.Title != nil {
			f.tasks[i].Title = *patch.Title
		}
		if patch.Description != nil {
			f.tasks[i].Description = *patch.Description
		}
		if patch.Status != nil {
			f.tasks[i].Status = *patch.Status
		}
		if patch.Priority != nil {
			f.tasks[i].Priority = *patch.Priority
		}
		if patch.DueDate != nil {
			f.tasks[i].DueDate = *patch.DueDate
		}
		return nil
	}
	return errors.New("no such task")
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if f.deleteFails[id] {
		return errors.New("storage unavailable")
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return errors.New("no such task")
}

func (f *fakeStore) ListCurrent(_ context.Context) ([]model.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *fakeStore) find(title string) *model.Task {
	for i := range f.tasks {
		if f.tasks[i].Title == title {
			return &f.tasks[i]
		}
	}
	return nil
}

func testExecutor(store TaskStore) *Executor {
	return NewExecutor(store, zap.NewNop())
}

func TestResolveTargetFirstMatch(t *testing.T) {
	store := newFakeStore("Buy milk", "Buy bread")
	e := testExecutor(store)

	target, err := e.resolveTarget(context.Background(), "buy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Title != "Buy milk" {
		t.Errorf("expected first-listed match, got %q", target.Title)
	}
}

func TestResolveTargetNotFound(t *testing.T) {
	store := newFakeStore("Buy milk", "Buy bread")
	e := testExecutor(store)

	_, err := e.resolveTarget(context.Background(), "eggs")
	var notFound *TargetNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected TargetNotFoundError, got %v", err)
	}
	if notFound.Fragment != "eggs" {
		t.Errorf("expected fragment carried for display, got %q", notFound.Fragment)
	}
}

func TestResolveTargetEmptyFragment(t *testing.T) {
	store := newFakeStore("Buy milk")
	e := testExecutor(store)

	_, err := e.resolveTarget(context.Background(), "  ")
	var notFound *TargetNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected TargetNotFoundError for empty fragment, got %v", err)
	}
}

func TestResolveDate(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	tests := []struct {
		raw  string
		want time.Time
	}{
		{"today", today},
		{"due today please", today},
		{"tomorrow", tomorrow},
		{"Tomorrow at 10 AM", tomorrow},
		{"TOMORROW", tomorrow},
		{"2025-06-30", time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)},
		{"2025-06-30T10:00:00Z", time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)},
		{"next blue moon", today},
		{"", today},
	}

	for _, tt := range tests {
		got := ResolveDate(tt.raw, now)
		if !got.Equal(tt.want) {
			t.Errorf("ResolveDate(%q): got %v, want %v", tt.raw, got, tt.want)
		}
	}
}

// Scenario: "Create a task to finish the report by tomorrow".
func TestExecuteCreateTask(t *testing.T) {
	store := newFakeStore()
	e := testExecutor(store)

	cmd, err := Parse(`{"action":"create_task","title":"finish the report","due_date":"tomorrow"}`)
	if err != nil {
		t.Fatalf("unexpected diagnostic: %v", err)
	}

	reply, err := e.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "finish the report") {
		t.Errorf("confirmation should mention the title, got %q", reply)
	}

	created := store.find("finish the report")
	if created == nil {
		t.Fatal("task was not created")
	}
	if created.Status != model.StatusTodo {
		t.Errorf("expected default status todo, got %q", created.Status)
	}
	if created.Priority != model.PriorityMedium {
		t.Errorf("expected default priority medium, got %q", created.Priority)
	}

	now := time.Now()
	wantDue := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	if !created.DueDate.Equal(wantDue) {
		t.Errorf("expected due date tomorrow (%v), got %v", wantDue, created.DueDate)
	}
}

func TestExecuteCreateTaskInvalidEnumsDefault(t *testing.T) {
	store := newFakeStore()
	e := testExecutor(store)

	cmd := Command{Kind: ActionCreateTask, Create: &CreatePayload{
		Title:    "Water plants",
		Priority: "urgent",   // not a valid priority
		Status:   "sometime", // not a valid status
	}}

	if _, err := e.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created := store.find("Water plants")
	if created.Priority != model.PriorityMedium || created.Status != model.StatusTodo {
		t.Errorf("invalid enums should fall back to defaults, got %q/%q", created.Priority, created.Status)
	}
}

func TestExecuteCreateTaskWithoutTitle(t *testing.T) {
	e := testExecutor(newFakeStore())

	cmd := Command{Kind: ActionCreateTask, Create: &CreatePayload{}}
	_, err := e.Execute(context.Background(), cmd)
	if !errors.Is(err, ErrMutationFailed) {
		t.Errorf("expected ErrMutationFailed, got %v", err)
	}
}

// Scenario: "Mark the presentation task as complete".
func TestExecuteMarkComplete(t *testing.T) {
	store := newFakeStore("Prepare presentation", "Buy milk")
	e := testExecutor(store)

	cmd := Command{Kind: ActionMarkComplete, Target: &TargetPayload{TargetTitle: "presentation"}}
	reply, err := e.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "Prepare presentation") {
		t.Errorf("confirmation should name the resolved task, got %q", reply)
	}
	if store.find("Prepare presentation").Status != model.StatusCompleted {
		t.Error("task was not marked completed")
	}
}

func TestExecuteMarkIncomplete(t *testing.T) {
	store := newFakeStore("Prepare presentation")
	store.tasks[0].Status = model.StatusCompleted
	e := testExecutor(store)

	cmd := Command{Kind: ActionMarkIncomplete, Target: &TargetPayload{TargetTitle: "presentation"}}
	if _, err := e.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.tasks[0].Status != model.StatusTodo {
		t.Errorf("expected status todo, got %q", store.tasks[0].Status)
	}
}

func TestExecuteUpdateAppliesOnlySuppliedFields(t *testing.T) {
	store := newFakeStore("Write weekly report")
	store.tasks[0].Description = "original description"
	e := testExecutor(store)

	cmd := Command{Kind: ActionUpdateTask, Update: &UpdatePayload{
		TargetTitle: "weekly",
		Priority:    "high",
	}}
	if _, err := e.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	task := store.tasks[0]
	if task.Priority != model.PriorityHigh {
		t.Errorf("priority not applied, got %q", task.Priority)
	}
	if task.Description != "original description" {
		t.Error("description should not have been touched")
	}
	if task.Title != "Write weekly report" {
		t.Error("title should not have been touched")
	}
}

func TestExecuteDeleteTask(t *testing.T) {
	store := newFakeStore("Buy milk", "Buy bread")
	e := testExecutor(store)

	cmd := Command{Kind: ActionDeleteTask, Target: &TargetPayload{TargetTitle: "bread"}}
	reply, err := e.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "Buy bread") {
		t.Errorf("confirmation should name the deleted task, got %q", reply)
	}
	if len(store.tasks) != 1 || store.tasks[0].Title != "Buy milk" {
		t.Errorf("wrong task deleted: %+v", store.tasks)
	}
}

func TestExecuteDeleteAllTasks(t *testing.T) {
	store := newFakeStore("a", "b", "c")
	e := testExecutor(store)

	reply, err := e.Execute(context.Background(), Command{Kind: ActionDeleteAllTasks})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.tasks) != 0 {
		t.Errorf("expected all tasks deleted, %d remain", len(store.tasks))
	}
	if !strings.Contains(reply, "3") {
		t.Errorf("confirmation should report the count, got %q", reply)
	}
}

// Scenario: "Delete all completed tasks" with zero completed tasks.
func TestExecuteDeleteCompletedWithNoneCompleted(t *testing.T) {
	store := newFakeStore("a", "b")
	e := testExecutor(store)

	reply, err := e.Execute(context.Background(), Command{Kind: ActionDeleteCompleted})
	if err != nil {
		t.Fatalf("zero matches is not an error, got %v", err)
	}
	if len(store.tasks) != 2 {
		t.Error("nothing should have been deleted")
	}
	if !strings.Contains(reply, "0") {
		t.Errorf("confirmation should report zero deletions, got %q", reply)
	}
}

func TestExecuteDeleteCompletedOnlyRemovesCompleted(t *testing.T) {
	store := newFakeStore("done one", "pending", "done two")
	store.tasks[0].Status = model.StatusCompleted
	store.tasks[2].Status = model.StatusCompleted
	e := testExecutor(store)

	reply, err := e.Execute(context.Background(), Command{Kind: ActionDeleteCompleted})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.tasks) != 1 || store.tasks[0].Title != "pending" {
		t.Errorf("expected only completed tasks removed, got %+v", store.tasks)
	}
	if !strings.Contains(reply, "2") {
		t.Errorf("confirmation should report two deletions, got %q", reply)
	}
}

func TestExecuteBulkDeleteContinuesPastFailures(t *testing.T) {
	store := newFakeStore("a", "b", "c")
	store.deleteFails["task-2"] = true
	e := testExecutor(store)

	reply, err := e.Execute(context.Background(), Command{Kind: ActionDeleteAllTasks})
	if err != nil {
		t.Fatalf("per-item failures must not abort the batch, got %v", err)
	}
	if !strings.Contains(reply, "2 of 3") {
		t.Errorf("aggregate should report partial success, got %q", reply)
	}
	if len(store.tasks) != 1 || store.tasks[0].ID != "task-2" {
		t.Errorf("only the failing task should remain, got %+v", store.tasks)
	}
}

func TestExecuteSetPriority(t *testing.T) {
	store := newFakeStore("Fix the boiler")
	e := testExecutor(store)

	cmd := Command{Kind: ActionSetPriority, Priority: &PriorityPayload{
		TargetTitle: "boiler",
		Priority:    "high",
	}}
	reply, err := e.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.tasks[0].Priority != model.PriorityHigh {
		t.Errorf("priority not applied, got %q", store.tasks[0].Priority)
	}
	if !strings.Contains(reply, "high") {
		t.Errorf("confirmation should mention the new priority, got %q", reply)
	}
}

func TestExecuteInformationalKinds(t *testing.T) {
	e := testExecutor(newFakeStore())

	reply, err := e.Execute(context.Background(), Command{
		Kind: ActionGiveTaskTip,
		Info: &InfoPayload{Response: "Use priorities."},
	})
	if err != nil || reply != "Use priorities." {
		t.Errorf("expected payload response back, got %q, %v", reply, err)
	}

	reply, err = e.Execute(context.Background(), Command{Kind: ActionEstimateTaskTime})
	if err != nil || reply != genericTip {
		t.Errorf("expected generic tip for empty payload, got %q, %v", reply, err)
	}
}

func TestExecuteMutationFailedWraps(t *testing.T) {
	store := newFakeStore("Buy milk")
	store.updateErr = errors.New("storage down")
	e := testExecutor(store)

	cmd := Command{Kind: ActionMarkComplete, Target: &TargetPayload{TargetTitle: "milk"}}
	_, err := e.Execute(context.Background(), cmd)
	if !errors.Is(err, ErrMutationFailed) {
		t.Errorf("expected ErrMutationFailed, got %v", err)
	}
}
