package services

import (
	"context"
	"fmt"
	"log"
	"time"

	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/notifier"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/stats"
)

// Report periods accepted by ReportStats
const (
	PeriodDaily  = "daily"
	PeriodWeekly = "weekly"
)

// ReminderResult is the outcome for one employee
type ReminderResult struct {
	UserID  uint64 `json:"user_id"`
	User    string `json:"user"`
	Email   string `json:"email"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ReminderSummary lists every attempt; TotalSent counts the successful ones
type ReminderSummary struct {
	Results   []ReminderResult `json:"results"`
	TotalSent int              `json:"total_sent"`
}

// ReportStatsResult is the daily or weekly payload with its period
type ReportStatsResult struct {
	Period string      `json:"period"`
	Report interface{} `json:"report"`
}

// ReportService computes report payloads and hands them to the notifier
type ReportService struct {
	taskRepo   repository.TaskRepository
	updateRepo repository.TaskUpdateRepository
	userRepo   repository.UserRepository
	notifier   notifier.Notifier
	now        func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(taskRepo repository.TaskRepository, updateRepo repository.TaskUpdateRepository, userRepo repository.UserRepository, n notifier.Notifier) *ReportService {
	return &ReportService{
		taskRepo:   taskRepo,
		updateRepo: updateRepo,
		userRepo:   userRepo,
		notifier:   n,
		now:        time.Now,
	}
}

// SendPendingTaskReminders mails every active employee who has open tasks
// that are not yet due. One failed delivery does not stop the others.
func (s *ReportService) SendPendingTaskReminders(ctx context.Context) (*ReminderSummary, error) {
	role := models.RoleEmployee
	employees, err := s.userRepo.List(repository.UserFilter{Role: &role, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	now := s.now()
	summary := &ReminderSummary{Results: []ReminderResult{}}

	for i := range employees {
		employee := &employees[i]

		tasks, err := s.taskRepo.List(repository.TaskFilter{
			AssignedUserID: &employee.ID,
			Statuses:       []models.TaskStatus{models.TaskStatusPending, models.TaskStatusInProgress},
			DueFrom:        &now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks for user %d: %w", employee.ID, err)
		}
		if len(tasks) == 0 {
			continue
		}

		result := s.notifier.SendTaskReminder(ctx, recipientOf(employee), tasks)
		if !result.Success {
			log.Printf("reminder to user %d failed: %s", employee.ID, result.Message)
		}

		summary.Results = append(summary.Results, ReminderResult{
			UserID:  employee.ID,
			User:    employee.FullName,
			Email:   employee.Email,
			Success: result.Success,
			Message: result.Message,
		})
		if result.Success {
			summary.TotalSent++
		}
	}

	return summary, nil
}

// DailyReport computes the user's daily payload
func (s *ReportService) DailyReport(userID uint64) (stats.DailyReport, error) {
	tasks, err := s.assignedTasks(userID)
	if err != nil {
		return stats.DailyReport{}, err
	}
	return stats.Daily(tasks, s.now()), nil
}

// WeeklyReport computes the user's weekly payload
func (s *ReportService) WeeklyReport(userID uint64) (stats.WeeklyReport, error) {
	tasks, err := s.assignedTasks(userID)
	if err != nil {
		return stats.WeeklyReport{}, err
	}

	now := s.now()
	from, to := stats.WeekWindow(now)
	updates, err := s.updateRepo.ListByUserBetween(userID, from, to)
	if err != nil {
		return stats.WeeklyReport{}, fmt.Errorf("failed to list task updates: %w", err)
	}

	return stats.Weekly(tasks, updates, now), nil
}

// SendDailyReport mails the daily payload to the user
func (s *ReportService) SendDailyReport(ctx context.Context, userID uint64) (notifier.Result, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return notifier.Result{}, err
	}

	report, err := s.DailyReport(userID)
	if err != nil {
		return notifier.Result{}, err
	}

	result := s.notifier.SendDailyReport(ctx, recipientOf(user), report)
	if !result.Success {
		return result, &apierrors.UnavailableError{Message: "Failed to send report: " + result.Message}
	}
	return result, nil
}

// SendWeeklyReport mails the weekly payload to the user
func (s *ReportService) SendWeeklyReport(ctx context.Context, userID uint64) (notifier.Result, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return notifier.Result{}, err
	}

	report, err := s.WeeklyReport(userID)
	if err != nil {
		return notifier.Result{}, err
	}

	result := s.notifier.SendWeeklyReport(ctx, recipientOf(user), report)
	if !result.Success {
		return result, &apierrors.UnavailableError{Message: "Failed to send report: " + result.Message}
	}
	return result, nil
}

// ReportStats returns the payload without sending it. Anything other than
// "weekly" is treated as daily.
func (s *ReportService) ReportStats(userID uint64, period string) (*ReportStatsResult, error) {
	if period == PeriodWeekly {
		report, err := s.WeeklyReport(userID)
		if err != nil {
			return nil, err
		}
		return &ReportStatsResult{Period: PeriodWeekly, Report: report}, nil
	}

	report, err := s.DailyReport(userID)
	if err != nil {
		return nil, err
	}
	return &ReportStatsResult{Period: PeriodDaily, Report: report}, nil
}

func (s *ReportService) assignedTasks(userID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(repository.TaskFilter{AssignedUserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *ReportService) findUser(userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func recipientOf(user *models.User) notifier.Recipient {
	return notifier.Recipient{UserID: user.ID, Email: user.Email, Name: user.FullName}
}
