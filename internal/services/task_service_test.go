package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	dto "taskmind.com/taskmind/internal/data_models"
	apperrors "taskmind.com/taskmind/internal/errors"
	model "taskmind.com/taskmind/internal/models"
	repository "taskmind.com/taskmind/internal/repositories"
)

// fakeGenerator answers prompts from a function, recording every call.
type fakeGenerator struct {
	mu    sync.Mutex
	calls []string
	fn    func(prompt string) (string, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, maxTokens int, temperature float64, disableThinking bool) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, prompt)
	f.mu.Unlock()
	return f.fn(prompt)
}

func failingGenerator() *fakeGenerator {
	return &fakeGenerator{fn: func(string) (string, error) {
		return "", errors.New("provider unavailable")
	}}
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(&model.Account{}, &model.Task{})
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	return db
}

func newTestAccount(t *testing.T, db *gorm.DB, email string) *model.Account {
	account, err := repository.NewAccountRepository(db).Create(context.Background(), email, "hashed")
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}
	return account
}

func newTaskService(db *gorm.DB, gen *fakeGenerator) *TaskService {
	return NewTaskService(repository.NewTaskRepository(db), gen, zap.NewNop())
}

func TestCreateTask_AppliesEnrichmentResults(t *testing.T) {
	db := setupTestDB(t)
	owner := newTestAccount(t, db, "a@example.com")

	gen := &fakeGenerator{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "task classifier") {
			return "Work", nil
		}
		return "High", nil
	}}
	service := newTaskService(db, gen)

	task, err := service.Create(context.Background(), owner.ID, "Quarterly report", "Numbers for Q3", nil)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	if task.Category != "Work" {
		t.Errorf("expected category Work, got %q", task.Category)
	}
	if task.Priority != "High" {
		t.Errorf("expected priority High, got %q", task.Priority)
	}
	if len(gen.calls) != 2 {
		t.Errorf("expected 2 enrichment calls, got %d", len(gen.calls))
	}
}

func TestCreateTask_DefaultsWhenEnrichmentFails(t *testing.T) {
	db := setupTestDB(t)
	owner := newTestAccount(t, db, "a@example.com")
	service := newTaskService(db, failingGenerator())

	task, err := service.Create(context.Background(), owner.ID, "Buy groceries", "", nil)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	if task.Category != "Other" {
		t.Errorf("expected default category Other, got %q", task.Category)
	}
	if task.Priority != "Medium" {
		t.Errorf("expected default priority Medium, got %q", task.Priority)
	}
	if task.Completed {
		t.Error("new task should not be completed")
	}
	if task.EstimatedTimeHours != nil {
		t.Error("new task should have no time estimate")
	}
}

func TestCreateTask_IndependentFallback(t *testing.T) {
	db := setupTestDB(t)
	owner := newTestAccount(t, db, "a@example.com")

	// Category call fails, priority call succeeds.
	gen := &fakeGenerator{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "task classifier") {
			return "", errors.New("provider unavailable")
		}
		return "Low", nil
	}}
	service := newTaskService(db, gen)

	task, err := service.Create(context.Background(), owner.ID, "Water plants", "", nil)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	if task.Category != "Other" {
		t.Errorf("expected fallback category Other, got %q", task.Category)
	}
	if task.Priority != "Low" {
		t.Errorf("expected priority Low, got %q", task.Priority)
	}
}

func TestListTasks_OrderedByDueDateNullsLast(t *testing.T) {
	db := setupTestDB(t)
	owner := newTestAccount(t, db, "a@example.com")
	service := newTaskService(db, failingGenerator())
	repo := repository.NewTaskRepository(db)

	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	january := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ctx := context.Background()
	if _, err := repo.Create(ctx, owner.ID, "March", "", "Other", "Medium", &march); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	if _, err := repo.Create(ctx, owner.ID, "Undated", "", "Other", "Medium", nil); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	if _, err := repo.Create(ctx, owner.ID, "January", "", "Other", "Medium", &january); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	tasks, err := service.List(ctx, owner.ID)
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}

	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "January" || tasks[1].Title != "March" || tasks[2].Title != "Undated" {
		t.Errorf("unexpected order: %s, %s, %s", tasks[0].Title, tasks[1].Title, tasks[2].Title)
	}
}

func TestListTasks_ScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	owner := newTestAccount(t, db, "a@example.com")
	other := newTestAccount(t, db, "b@example.com")
	service := newTaskService(db, failingGenerator())
	repo := repository.NewTaskRepository(db)

	ctx := context.Background()
	if _, err := repo.Create(ctx, other.ID, "Not mine", "", "Other", "Medium", nil); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	tasks, err := service.List(ctx, owner.ID)
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected no tasks for owner, got %d", len(tasks))
	}
}

func TestUpdateTask_AppliesPatch(t *testing.T) {
	db := setupTestDB(t)
	owner := newTestAccount(t, db, "a@example.com")
	service := newTaskService(db, failingGenerator())
	repo := repository.NewTaskRepository(db)

	ctx := context.Background()
	task, err := repo.Create(ctx, owner.ID, "Old title", "", "Other", "Medium", nil)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	newTitle := "New title"
	completed := true
	updated, err := service.Update(ctx, owner.ID, task.ID, &dto.UpdateTaskRequest{Title: &newTitle, Completed: &completed})
	if err != nil {
		t.Fatalf("failed to update task: %v", err)
	}

	if updated.Title != "New title" {
		t.Errorf("expected updated title, got %q", updated.Title)
	}
	if !updated.Completed {
		t.Error("expected task to be completed")
	}
	if updated.Category != "Other" {
		t.Errorf("unpatched field changed: category %q", updated.Category)
	}
}

func TestOwnerChecks_OtherAccountGetsNotFound(t *testing.T) {
	db := setupTestDB(t)
	owner := newTestAccount(t, db, "a@example.com")
	other := newTestAccount(t, db, "b@example.com")
	service := newTaskService(db, failingGenerator())
	repo := repository.NewTaskRepository(db)

	ctx := context.Background()
	task, err := repo.Create(ctx, owner.ID, "Private", "", "Other", "Medium", nil)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	title := "Hijacked"
	if _, err := service.Update(ctx, other.ID, task.ID, &dto.UpdateTaskRequest{Title: &title}); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("update: expected ErrTaskNotFound, got %v", err)
	}
	if err := service.Delete(ctx, other.ID, task.ID); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("delete: expected ErrTaskNotFound, got %v", err)
	}
	if _, err := service.PredictTime(ctx, other.ID, task.ID); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("predict: expected ErrTaskNotFound, got %v", err)
	}
	if _, err := service.GenerateProcedure(ctx, other.ID, task.ID); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("procedure: expected ErrTaskNotFound, got %v", err)
	}

	// The task itself is untouched.
	stored, err := repo.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}
	if stored.Title != "Private" {
		t.Errorf("task was modified by non-owner: %q", stored.Title)
	}
}

func TestDeleteTask_RemovesRow(t *testing.T) {
	db := setupTestDB(t)
	owner := newTestAccount(t, db, "a@example.com")
	service := newTaskService(db, failingGenerator())
	repo := repository.NewTaskRepository(db)

	ctx := context.Background()
	task, err := repo.Create(ctx, owner.ID, "Disposable", "", "Other", "Medium", nil)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	if err := service.Delete(ctx, owner.ID, task.ID); err != nil {
		t.Fatalf("failed to delete task: %v", err)
	}

	if _, err := repo.FindByID(ctx, task.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected record gone, got %v", err)
	}
}

func TestPredictTime_ParsesAndPersists(t *testing.T) {
	db := setupTestDB(t)
	owner := newTestAccount(t, db, "a@example.com")
	gen := &fakeGenerator{fn: func(string) (string, error) { return "3.5 hours", nil }}
	service := newTaskService(db, gen)
	repo := repository.NewTaskRepository(db)

	ctx := context.Background()
	task, err := repo.Create(ctx, owner.ID, "Paint fence", "", "Other", "Medium", nil)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	estimate, err := service.PredictTime(ctx, owner.ID, task.ID)
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if estimate == nil || *estimate != 3.5 {
		t.Fatalf("expected estimate 3.5, got %v", estimate)
	}

	stored, err := repo.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}
	if stored.EstimatedTimeHours == nil || *stored.EstimatedTimeHours != 3.5 {
		t.Errorf("expected persisted estimate 3.5, got %v", stored.EstimatedTimeHours)
	}
}

func TestPredictTime_UnparseableLeavesTaskUntouched(t *testing.T) {
	db := setupTestDB(t)
	owner := newTestAccount(t, db, "a@example.com")
	gen := &fakeGenerator{fn: func(string) (string, error) { return "unknown", nil }}
	service := newTaskService(db, gen)
	repo := repository.NewTaskRepository(db)

	ctx := context.Background()
	task, err := repo.Create(ctx, owner.ID, "Mystery", "", "Other", "Medium", nil)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	estimate, err := service.PredictTime(ctx, owner.ID, task.ID)
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if estimate != nil {
		t.Errorf("expected nil estimate, got %v", *estimate)
	}

	stored, _ := repo.FindByID(ctx, task.ID)
	if stored.EstimatedTimeHours != nil {
		t.Errorf("estimate should be unchanged, got %v", *stored.EstimatedTimeHours)
	}
}

func TestPredictTime_ProviderFailureYieldsNil(t *testing.T) {
	db := setupTestDB(t)
	owner := newTestAccount(t, db, "a@example.com")
	service := newTaskService(db, failingGenerator())
	repo := repository.NewTaskRepository(db)

	ctx := context.Background()
	task, err := repo.Create(ctx, owner.ID, "Opaque", "", "Other", "Medium", nil)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	estimate, err := service.PredictTime(ctx, owner.ID, task.ID)
	if err != nil {
		t.Fatalf("predict should not error on AI failure: %v", err)
	}
	if estimate != nil {
		t.Errorf("expected nil estimate, got %v", *estimate)
	}
}

func TestGenerateProcedure_SuccessAndFailure(t *testing.T) {
	db := setupTestDB(t)
	owner := newTestAccount(t, db, "a@example.com")
	repo := repository.NewTaskRepository(db)

	ctx := context.Background()
	task, err := repo.Create(ctx, owner.ID, "Plan trip", "", "Other", "Medium", nil)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	gen := &fakeGenerator{fn: func(string) (string, error) { return "1. Pack 2. Go", nil }}
	service := newTaskService(db, gen)

	procedure, err := service.GenerateProcedure(ctx, owner.ID, task.ID)
	if err != nil {
		t.Fatalf("procedure failed: %v", err)
	}
	if procedure != "1. Pack 2. Go" {
		t.Errorf("unexpected procedure: %q", procedure)
	}

	failing := newTaskService(db, failingGenerator())
	if _, err := failing.GenerateProcedure(ctx, owner.ID, task.ID); !errors.Is(err, apperrors.ErrEnrichmentFailed) {
		t.Errorf("expected ErrEnrichmentFailed, got %v", err)
	}
}
