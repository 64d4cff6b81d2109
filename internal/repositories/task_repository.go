package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "taskmind.com/taskmind/internal/models"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, ownerID, title, description, category, priority string, dueDate *time.Time) (*model.Task, error) {
	task := &model.Task{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		DueDate:     dueDate,
		Completed:   false,
		CreatedAt:   time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, err
	}

	return task, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByOwner orders by due date ascending; tasks without a due date sort
// last.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("due_date IS NULL, due_date asc").
		Find(&tasks).Error
	return tasks, err
}

// Patch applies the given column values verbatim and returns the updated
// row. An empty patch is a no-op read.
func (r *TaskRepository) Patch(ctx context.Context, id string, fields map[string]interface{}) (*model.Task, error) {
	if len(fields) > 0 {
		err := r.db.WithContext(ctx).Model(&model.Task{}).
			Where("id = ?", id).
			Updates(fields).Error
		if err != nil {
			return nil, err
		}
	}

	return r.FindByID(ctx, id)
}

func (r *TaskRepository) SetEstimatedHours(ctx context.Context, id string, hours float64) error {
	return r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		Update("estimated_time_hours", hours).Error
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id).Error
}
