package repository

import (
	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create persists the task and its assignments atomically
func (r *GormTaskRepository) Create(task *models.Task, assigneeIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}
		return insertAssignments(tx, task.ID, assigneeIDs)
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = applyPreload(query, p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks newest first
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if filter.AssignedUserID != nil {
		query = query.Scopes(database.AssignedTo(*filter.AssignedUserID))
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("tasks.status IN ?", filter.Statuses)
	}
	if filter.DueFrom != nil {
		query = query.Where("tasks.due_date >= ?", *filter.DueFrom)
	}

	if filter.WithRelations {
		query = applyPreload(query, "Creator")
		query = applyPreload(query, "Assignments")
		query = applyPreload(query, "Assignments.User")
	}
	if filter.WithUpdates {
		query = applyPreload(query, "Updates")
		query = applyPreload(query, "Updates.User")
	}

	query = query.Scopes(database.NewestFirst("tasks"))
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update saves the task and optionally replaces assignments and appends an audit entry
func (r *GormTaskRepository) Update(task *models.Task, assigneeIDs *[]uint64, audit *models.TaskUpdate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return err
		}

		if assigneeIDs != nil {
			if err := replaceAssignments(tx, task.ID, *assigneeIDs); err != nil {
				return err
			}
		}

		if audit != nil {
			audit.TaskID = task.ID
			if err := tx.Omit(clause.Associations).Create(audit).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete removes the task, its updates and its assignments
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskUpdate{}).Error; err != nil {
			return err
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Task{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ListAssignees returns the users currently assigned to a task
func (r *GormTaskRepository) ListAssignees(taskID uint64) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN task_assignments ON task_assignments.user_id = users.id").
		Where("task_assignments.task_id = ?", taskID).
		Order("task_assignments.id").
		Find(&users).Error
	return users, err
}

func replaceAssignments(tx *gorm.DB, taskID uint64, userIDs []uint64) error {
	if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskAssignment{}).Error; err != nil {
		return err
	}
	return insertAssignments(tx, taskID, userIDs)
}

func insertAssignments(tx *gorm.DB, taskID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}

	assignments := make([]models.TaskAssignment, len(userIDs))
	for i, userID := range userIDs {
		assignments[i] = models.TaskAssignment{
			TaskID: taskID,
			UserID: userID,
		}
	}

	return tx.Omit(clause.Associations).Create(&assignments).Error
}

// applyPreload adds a preload, ordering collections the way every reader expects
func applyPreload(query *gorm.DB, name string) *gorm.DB {
	switch name {
	case "Updates":
		return query.Preload("Updates", database.NewestFirst("task_updates"))
	case "Assignments":
		return query.Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("task_assignments.id ASC")
		})
	default:
		return query.Preload(name)
	}
}
