package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/realtime"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/validation"
	"gorm.io/gorm"
)

var taskDetailPreloads = []string{"Creator", "Assignments", "Assignments.User", "Updates", "Updates.User"}

// TaskService handles task business logic
type TaskService struct {
	taskRepo   repository.TaskRepository
	updateRepo repository.TaskUpdateRepository
	userRepo   repository.UserRepository
	events     EventPublisher
	now        func() time.Time
}

// NewTaskService creates a new TaskService. A nil publisher disables events.
func NewTaskService(taskRepo repository.TaskRepository, updateRepo repository.TaskUpdateRepository, userRepo repository.UserRepository, events EventPublisher) *TaskService {
	if events == nil {
		events = noopPublisher{}
	}
	return &TaskService{
		taskRepo:   taskRepo,
		updateRepo: updateRepo,
		userRepo:   userRepo,
		events:     events,
		now:        time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	DueDate     *time.Time
	AssigneeIDs []uint64
	CreatorID   uint64

	// DueDateMalformed marks a due date that was sent but could not be parsed
	DueDateMalformed bool
}

// UpdateTaskInput represents input for updating a task. Nil fields are left
// unchanged; a non-nil AssigneeIDs replaces the whole assignee set, even when empty.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *models.TaskPriority
	Status      *models.TaskStatus
	DueDate     *time.Time
	AssigneeIDs *[]uint64

	DueDateMalformed bool
}

// SubmitUpdateInput represents a work-log entry
type SubmitUpdateInput struct {
	TaskID      uint64
	Actor       auth.Actor
	Comment     string
	Status      models.TaskStatus
	HoursWorked float64
	Attachments models.Attachments

	// HoursMalformed marks an hours value that was not a number
	HoursMalformed bool
}

// CreateTask validates and stores a Pending task with its assignees
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	assigneeIDs := uniqueUint64(input.AssigneeIDs)

	dueDate := validation.DueDate(input.DueDate, s.now())
	if input.DueDateMalformed {
		dueDate = validation.DateFormat("due date")
	}

	violations := validation.Collect(
		validation.Title(input.Title),
		dueDate,
		validation.Priority(input.Priority),
	)
	assigneeViolations, err := s.validateAssignees(assigneeIDs)
	if err != nil {
		return nil, err
	}
	violations = append(violations, assigneeViolations...)
	if err := apierrors.NewValidationError(violations); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Priority:    input.Priority,
		Status:      models.TaskStatusPending,
		DueDate:     *input.DueDate,
		Attachments: models.Attachments{},
		CreatedBy:   input.CreatorID,
	}

	if err := s.taskRepo.Create(task, assigneeIDs); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created, err := s.GetTask(task.ID)
	if err != nil {
		return nil, err
	}

	s.events.BroadcastToUsers(created.AssigneeIDs(), realtime.EventTaskCreated, created)
	return created, nil
}

// UpdateTask applies the supplied fields. A status change is also written as a
// work-log entry so that the latest entry always carries the current status.
func (s *TaskService) UpdateTask(taskID uint64, actor auth.Actor, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(taskID, "Assignments")
	if err != nil {
		return nil, err
	}
	previousAssignees := task.AssigneeIDs()

	var violations []string
	if input.Title != nil {
		violations = append(violations, validation.Title(*input.Title)...)
	}
	if input.Priority != nil {
		violations = append(violations, validation.Priority(*input.Priority)...)
	}
	if input.Status != nil {
		violations = append(violations, validation.TaskStatus(*input.Status)...)
	}
	// an unchanged due date is not re-checked, so overdue tasks stay editable
	if input.DueDateMalformed {
		violations = append(violations, validation.DateFormat("due date")...)
	} else if input.DueDate != nil && !input.DueDate.Equal(task.DueDate) {
		violations = append(violations, validation.DueDate(input.DueDate, s.now())...)
	}
	var assigneeIDs *[]uint64
	if input.AssigneeIDs != nil {
		ids := uniqueUint64(*input.AssigneeIDs)
		assigneeViolations, err := s.validateAssignees(ids)
		if err != nil {
			return nil, err
		}
		violations = append(violations, assigneeViolations...)
		assigneeIDs = &ids
	}
	if err := apierrors.NewValidationError(violations); err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}

	var audit *models.TaskUpdate
	if input.Status != nil && *input.Status != task.Status {
		audit = &models.TaskUpdate{
			UserID:      actor.UserID,
			Comment:     fmt.Sprintf("Status changed from %s to %s", task.Status, *input.Status),
			Status:      *input.Status,
			HoursWorked: 0,
			CreatedAt:   s.now(),
		}
		task.Status = *input.Status
	}

	task.Assignments = nil
	if err := s.taskRepo.Update(task, assigneeIDs, audit); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	updated, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	s.events.BroadcastToUsers(append(previousAssignees, updated.AssigneeIDs()...), realtime.EventTaskUpdated, updated)
	return updated, nil
}

// DeleteTask removes the task together with its assignments and work log
func (s *TaskService) DeleteTask(taskID uint64) error {
	task, err := s.findTask(taskID, "Assignments")
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.events.BroadcastToUsers(task.AssigneeIDs(), realtime.EventTaskDeleted, map[string]uint64{"id": taskID})
	return nil
}

// GetTask returns a task with creator, assignees and work log
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	return s.findTask(taskID, taskDetailPreloads...)
}

// CheckAccess allows administrators every task and employees their assigned ones
func (s *TaskService) CheckAccess(taskID uint64, actor auth.Actor) error {
	task, err := s.findTask(taskID, "Assignments")
	if err != nil {
		return err
	}
	if !actor.IsAdministrator() && !task.IsAssignedTo(actor.UserID) {
		return ErrNotTaskAssignee
	}
	return nil
}

// ListAllTasks returns every task with creator and assignees, newest first
func (s *TaskService) ListAllTasks() ([]models.Task, error) {
	tasks, err := s.taskRepo.List(repository.TaskFilter{WithRelations: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListTasksForUser returns the user's assigned tasks with their full work log
func (s *TaskService) ListTasksForUser(userID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(repository.TaskFilter{
		AssignedUserID: &userID,
		WithRelations:  true,
		WithUpdates:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// SubmitUpdate appends a work-log entry and moves the task to its status.
// Only assignees and administrators may submit.
func (s *TaskService) SubmitUpdate(input SubmitUpdateInput) (*models.TaskUpdate, error) {
	hours := validation.HoursWorked(input.HoursWorked)
	if input.HoursMalformed {
		hours = validation.HoursNotNumeric()
	}

	violations := validation.Collect(
		validation.Comment(input.Comment),
		validation.TaskStatus(input.Status),
		hours,
	)
	if len(input.Attachments) > constants.MaxAttachmentsPerUpdate {
		violations = append(violations, fmt.Sprintf("At most %d attachments are allowed per update", constants.MaxAttachmentsPerUpdate))
	}
	if err := apierrors.NewValidationError(violations); err != nil {
		return nil, err
	}

	task, err := s.findTask(input.TaskID, "Assignments")
	if err != nil {
		return nil, err
	}
	if !input.Actor.IsAdministrator() && !task.IsAssignedTo(input.Actor.UserID) {
		return nil, ErrNotTaskAssignee
	}

	attachments := input.Attachments
	if attachments == nil {
		attachments = models.Attachments{}
	}

	update := &models.TaskUpdate{
		TaskID:      task.ID,
		UserID:      input.Actor.UserID,
		Comment:     strings.TrimSpace(input.Comment),
		Status:      input.Status,
		HoursWorked: input.HoursWorked,
		Attachments: attachments,
		CreatedAt:   s.now(),
	}

	if err := s.updateRepo.Submit(update); err != nil {
		return nil, fmt.Errorf("failed to submit task update: %w", err)
	}

	if user, err := s.userRepo.FindByID(update.UserID); err == nil {
		update.User = *user
	}

	recipients := append(task.AssigneeIDs(), task.CreatedBy)
	s.events.BroadcastToUsers(recipients, realtime.EventTaskUpdateSubmitted, update)
	return update, nil
}

// ListUpdates returns a task's work log, newest first
func (s *TaskService) ListUpdates(taskID uint64) ([]models.TaskUpdate, error) {
	if _, err := s.findTask(taskID); err != nil {
		return nil, err
	}

	updates, err := s.updateRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task updates: %w", err)
	}
	return updates, nil
}

// ListAssignees returns the users assigned to a task
func (s *TaskService) ListAssignees(taskID uint64) ([]models.User, error) {
	if _, err := s.findTask(taskID); err != nil {
		return nil, err
	}

	users, err := s.taskRepo.ListAssignees(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignees: %w", err)
	}
	return users, nil
}

func (s *TaskService) findTask(taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// validateAssignees reports unknown user IDs as a violation
func (s *TaskService) validateAssignees(ids []uint64) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	count, err := s.userRepo.CountByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to verify assignees: %w", err)
	}
	if count != int64(len(ids)) {
		return []string{"One or more assignees do not exist"}, nil
	}
	return nil, nil
}

// uniqueUint64 removes duplicates preserving first-seen order
func uniqueUint64(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	result := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
