package services

import (
	"fmt"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/stats"
)

// AdminDashboard is the organisation-wide snapshot
type AdminDashboard struct {
	stats.Counts
	TotalEmployees       int                               `json:"total_employees"`
	EmployeeProductivity []repository.EmployeeProductivity `json:"employee_productivity"`
	RecentTasks          []models.Task                     `json:"recent_tasks"`
}

// EmployeeDashboard holds the counters for one user's assigned tasks
type EmployeeDashboard struct {
	stats.Counts
}

// DashboardService computes dashboards on every request
type DashboardService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *DashboardService {
	return &DashboardService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// AdminDashboard counts every task and rolls up active employees
func (s *DashboardService) AdminDashboard() (*AdminDashboard, error) {
	tasks, err := s.taskRepo.List(repository.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	productivity, err := s.userRepo.EmployeeProductivity()
	if err != nil {
		return nil, fmt.Errorf("failed to compute employee productivity: %w", err)
	}

	recent, err := s.taskRepo.List(repository.TaskFilter{
		WithRelations: true,
		Limit:         constants.RecentTasksLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent tasks: %w", err)
	}

	return &AdminDashboard{
		Counts:               stats.Count(tasks, s.now()),
		TotalEmployees:       len(productivity),
		EmployeeProductivity: productivity,
		RecentTasks:          recent,
	}, nil
}

// EmployeeDashboard counts only the tasks assigned to userID
func (s *DashboardService) EmployeeDashboard(userID uint64) (*EmployeeDashboard, error) {
	tasks, err := s.taskRepo.List(repository.TaskFilter{AssignedUserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return &EmployeeDashboard{Counts: stats.Count(tasks, s.now())}, nil
}
