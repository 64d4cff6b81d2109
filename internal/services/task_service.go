package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskmind.com/taskmind/internal/ai"
	dto "taskmind.com/taskmind/internal/data_models"
	apperrors "taskmind.com/taskmind/internal/errors"
	model "taskmind.com/taskmind/internal/models"
	repository "taskmind.com/taskmind/internal/repositories"
)

type TaskService struct {
	repo   *repository.TaskRepository
	gen    ai.Generator
	logger *zap.Logger
}

func NewTaskService(repo *repository.TaskRepository, gen ai.Generator, logger *zap.Logger) *TaskService {
	return &TaskService{
		repo:   repo,
		gen:    gen,
		logger: logger,
	}
}

// Create runs the category and priority classification calls concurrently
// and waits for both to settle before persisting. Each result falls back
// independently to its default when the call yields nothing; only a store
// error prevents the task from being created.
func (s *TaskService) Create(ctx context.Context, ownerID, title, description string, dueDate *time.Time) (*model.Task, error) {
	var (
		wg         sync.WaitGroup
		aiCategory string
		aiPriority string
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		aiCategory = s.shortCompletion(ctx, ai.CategoryPrompt(title, description), ai.ShortCallMaxTokens)
	}()
	go func() {
		defer wg.Done()
		aiPriority = s.shortCompletion(ctx, ai.PriorityPrompt(title, description), ai.ShortCallMaxTokens)
	}()
	wg.Wait()

	category := model.DefaultCategory
	if aiCategory != "" {
		category = aiCategory
	}
	priority := model.DefaultPriority
	if aiPriority != "" {
		priority = aiPriority
	}

	return s.repo.Create(ctx, ownerID, title, description, category, priority, dueDate)
}

func (s *TaskService) List(ctx context.Context, ownerID string) ([]model.Task, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, patch *dto.UpdateTaskRequest) (*model.Task, error) {
	if _, err := s.findOwned(ctx, ownerID, taskID); err != nil {
		return nil, err
	}

	return s.repo.Patch(ctx, taskID, patchFields(patch))
}

func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	if _, err := s.findOwned(ctx, ownerID, taskID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, taskID)
}

// PredictTime asks for a single numeric hour estimate. A failed call or an
// unparseable answer is not an error: the estimate is nil and the stored
// task is left untouched.
func (s *TaskService) PredictTime(ctx context.Context, ownerID, taskID string) (*float64, error) {
	task, err := s.findOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	text := s.shortCompletion(ctx, ai.TimeEstimatePrompt(task.Title, task.Description), ai.EstimateMaxTokens)

	estimate, ok := ai.ParseLeadingFloat(text)
	if !ok || estimate <= 0 {
		return nil, nil
	}

	if err := s.repo.SetEstimatedHours(ctx, task.ID, estimate); err != nil {
		return nil, err
	}

	return &estimate, nil
}

// GenerateProcedure is the one enrichment path where a null result surfaces
// as an error instead of a default.
func (s *TaskService) GenerateProcedure(ctx context.Context, ownerID, taskID string) (string, error) {
	task, err := s.findOwned(ctx, ownerID, taskID)
	if err != nil {
		return "", err
	}

	text, err := s.gen.Generate(
		ctx,
		ai.ProcedurePrompt(task.Title, task.Description),
		ai.ProcedureMaxTokens,
		ai.ProcedureTemperature,
		true,
	)
	if err != nil {
		s.logger.Warn("procedure generation failed", zap.String("task_id", task.ID), zap.Error(err))
		return "", apperrors.ErrEnrichmentFailed
	}

	return text, nil
}

// findOwned collapses "absent" and "owned by someone else" into the same
// not-found outcome.
func (s *TaskService) findOwned(ctx context.Context, ownerID, taskID string) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	if task.UserID != ownerID {
		return nil, apperrors.ErrTaskNotFound
	}

	return task, nil
}

func (s *TaskService) shortCompletion(ctx context.Context, prompt string, maxTokens int) string {
	text, err := s.gen.Generate(ctx, prompt, maxTokens, ai.ShortCallTemperature, false)
	if err != nil {
		s.logger.Warn("enrichment call failed", zap.Error(err))
		return ""
	}
	return text
}

func patchFields(patch *dto.UpdateTaskRequest) map[string]interface{} {
	fields := make(map[string]interface{})
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Category != nil {
		fields["category"] = *patch.Category
	}
	if patch.Priority != nil {
		fields["priority"] = *patch.Priority
	}
	if patch.EstimatedTimeHours != nil {
		fields["estimated_time_hours"] = *patch.EstimatedTimeHours
	}
	if patch.DueDate != nil {
		fields["due_date"] = *patch.DueDate
	}
	if patch.Completed != nil {
		fields["completed"] = *patch.Completed
	}
	if patch.UserID != nil {
		fields["user_id"] = *patch.UserID
	}
	return fields
}
