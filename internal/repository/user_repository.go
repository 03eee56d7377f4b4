package repository

import (
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users ordered by full name
func (r *GormUserRepository) List(filter UserFilter) ([]models.User, error) {
	var users []models.User

	query := r.db.Model(&models.User{})
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Order("full_name ASC").Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update saves all user fields
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// CountByIDs counts how many of the given user IDs exist
func (r *GormUserRepository) CountByIDs(userIDs []uint64) (int64, error) {
	var count int64
	if len(userIDs) == 0 {
		return 0, nil
	}
	err := r.db.Model(&models.User{}).Where("id IN ?", userIDs).Count(&count).Error
	return count, err
}

// CountByRole counts users holding a role
func (r *GormUserRepository) CountByRole(role models.Role) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// EmployeeProductivity returns assigned and completed task counts per active employee
func (r *GormUserRepository) EmployeeProductivity() ([]EmployeeProductivity, error) {
	var rows []EmployeeProductivity

	err := r.db.Model(&models.User{}).
		Select(
			"users.id AS user_id, users.full_name AS full_name, "+
				"COUNT(tasks.id) AS total_tasks, "+
				"COALESCE(SUM(CASE WHEN tasks.status = ? THEN 1 ELSE 0 END), 0) AS completed_tasks",
			models.TaskStatusCompleted,
		).
		Joins("LEFT JOIN task_assignments ON task_assignments.user_id = users.id").
		Joins("LEFT JOIN tasks ON tasks.id = task_assignments.task_id").
		Where("users.role = ? AND users.is_active = ?", models.RoleEmployee, true).
		Group("users.id, users.full_name").
		Order("users.full_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
