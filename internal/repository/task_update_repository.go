package repository

import (
	"time"

	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskUpdateRepository is a GORM implementation of TaskUpdateRepository
type GormTaskUpdateRepository struct {
	db *gorm.DB
}

// NewTaskUpdateRepository creates a new TaskUpdateRepository
func NewTaskUpdateRepository(db *gorm.DB) TaskUpdateRepository {
	return &GormTaskUpdateRepository{db: db}
}

// Submit appends the update and overwrites the parent task's status.
// Concurrent submissions for one task are last-write-wins.
func (r *GormTaskUpdateRepository) Submit(update *models.TaskUpdate) error {
	if update.CreatedAt.IsZero() {
		update.CreatedAt = time.Now()
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(update).Error; err != nil {
			return err
		}

		return tx.Model(&models.Task{}).
			Where("id = ?", update.TaskID).
			Updates(map[string]interface{}{
				"status":     update.Status,
				"updated_at": update.CreatedAt,
			}).Error
	})
}

// ListByTask returns a task's updates newest first
func (r *GormTaskUpdateRepository) ListByTask(taskID uint64) ([]models.TaskUpdate, error) {
	var updates []models.TaskUpdate
	err := r.db.
		Preload("User").
		Where("task_id = ?", taskID).
		Scopes(database.NewestFirst("task_updates")).
		Find(&updates).Error
	return updates, err
}

// ListByUserBetween returns the updates a user submitted within [from, to]
func (r *GormTaskUpdateRepository) ListByUserBetween(userID uint64, from, to time.Time) ([]models.TaskUpdate, error) {
	var updates []models.TaskUpdate
	err := r.db.
		Where("user_id = ? AND created_at >= ? AND created_at <= ?", userID, from, to).
		Scopes(database.NewestFirst("task_updates")).
		Find(&updates).Error
	return updates, err
}
