package repository

import (
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create persists a task and one assignment per assignee in a single transaction
	Create(task *models.Task, assigneeIDs []uint64) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks newest first
	List(filter TaskFilter) ([]models.Task, error)

	// Update saves the task fields. A non-nil assigneeIDs replaces the whole
	// assignment set and a non-nil audit entry is appended, all in one transaction.
	Update(task *models.Task, assigneeIDs *[]uint64, audit *models.TaskUpdate) error

	// Delete removes a task together with its assignments and updates
	Delete(id uint64) error

	// ListAssignees returns the users currently assigned to a task
	ListAssignees(taskID uint64) ([]models.User, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	AssignedUserID *uint64
	Statuses       []models.TaskStatus
	DueFrom        *time.Time
	WithRelations  bool
	WithUpdates    bool
	Limit          int
}

// TaskUpdateRepository defines the interface for work-log data access
type TaskUpdateRepository interface {
	// Submit appends an update and sets the task status to the update's status
	Submit(update *models.TaskUpdate) error

	// ListByTask returns a task's updates newest first
	ListByTask(taskID uint64) ([]models.TaskUpdate, error)

	// ListByUserBetween returns the updates a user submitted within [from, to]
	ListByUserBetween(userID uint64, from, to time.Time) ([]models.TaskUpdate, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List returns users ordered by full name
	List(filter UserFilter) ([]models.User, error)

	// Update saves all user fields
	Update(user *models.User) error

	// CountByIDs counts how many of the given user IDs exist
	CountByIDs(userIDs []uint64) (int64, error)

	// CountByRole counts users holding a role
	CountByRole(role models.Role) (int64, error)

	// EmployeeProductivity returns assigned and completed task counts per active employee
	EmployeeProductivity() ([]EmployeeProductivity, error)
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Role       *models.Role
	ActiveOnly bool
}

// EmployeeProductivity is one row of the per-employee rollup
type EmployeeProductivity struct {
	UserID         uint64 `json:"user_id"`
	FullName       string `json:"full_name"`
	TotalTasks     int64  `json:"total_tasks"`
	CompletedTasks int64  `json:"completed_tasks"`
}

// CourierRepository defines the interface for courier log data access
type CourierRepository interface {
	Create(courier *models.Courier) error
	FindByID(id uint64) (*models.Courier, error)
	ExistsTrackingNumber(trackingNumber string) (bool, error)
	List(filter CourierFilter) ([]models.Courier, int64, error)
	Update(courier *models.Courier) error
	Delete(id uint64) error
}

// CourierFilter holds filtering options for listing couriers
type CourierFilter struct {
	Search     string
	Status     *models.CourierStatus
	Pagination utils.PaginationParams
}
