package dto

import (
	"strings"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
)

// UnassignedLabel is shown for tasks with no assignees
const UnassignedLabel = "Unassigned"

// TaskUpdateDTO represents a work-log entry in API responses
type TaskUpdateDTO struct {
	ID          uint64             `json:"id"`
	TaskID      uint64             `json:"task_id"`
	UserID      uint64             `json:"user_id"`
	User        *UserSummaryDTO    `json:"user,omitempty"`
	Comment     string             `json:"comment"`
	Status      models.TaskStatus  `json:"status"`
	HoursWorked float64            `json:"hours_worked"`
	Attachments models.Attachments `json:"attachments"`
	CreatedAt   time.Time          `json:"created_at"`
}

// TaskDTO represents a task in API responses. IsOverdue is evaluated when the
// response is built.
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	Status      models.TaskStatus   `json:"status"`
	DueDate     time.Time           `json:"due_date"`
	IsOverdue   bool                `json:"is_overdue"`
	CreatedBy   uint64              `json:"created_by"`
	Creator     *UserSummaryDTO     `json:"creator,omitempty"`
	Assignees   []UserSummaryDTO    `json:"assignees"`
	AssignedTo  string              `json:"assigned_to"`
	Attachments models.Attachments  `json:"attachments"`
	Updates     []TaskUpdateDTO     `json:"updates,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// TaskResponse wraps a task with a confirmation message
type TaskResponse struct {
	Message string  `json:"message"`
	Task    TaskDTO `json:"task"`
}

// TaskUpdateResponse wraps a submitted work-log entry
type TaskUpdateResponse struct {
	Message string        `json:"message"`
	Update  TaskUpdateDTO `json:"update"`
}

// ToTaskUpdateDTO converts a TaskUpdate model to TaskUpdateDTO
func ToTaskUpdateDTO(update models.TaskUpdate) TaskUpdateDTO {
	attachments := update.Attachments
	if attachments == nil {
		attachments = models.Attachments{}
	}
	return TaskUpdateDTO{
		ID:          update.ID,
		TaskID:      update.TaskID,
		UserID:      update.UserID,
		User:        ToUserSummaryDTO(update.User),
		Comment:     update.Comment,
		Status:      update.Status,
		HoursWorked: update.HoursWorked,
		Attachments: attachments,
		CreatedAt:   update.CreatedAt,
	}
}

// ToTaskUpdateDTOs converts work-log entries, never returning nil
func ToTaskUpdateDTOs(updates []models.TaskUpdate) []TaskUpdateDTO {
	result := make([]TaskUpdateDTO, len(updates))
	for i, update := range updates {
		result[i] = ToTaskUpdateDTO(update)
	}
	return result
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task, now time.Time) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Status:      task.Status,
		DueDate:     task.DueDate,
		IsOverdue:   task.IsOverdue(now),
		CreatedBy:   task.CreatedBy,
		Creator:     ToUserSummaryDTO(task.Creator),
		Assignees:   make([]UserSummaryDTO, 0, len(task.Assignments)),
		Attachments: task.Attachments,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if dto.Attachments == nil {
		dto.Attachments = models.Attachments{}
	}

	names := make([]string, 0, len(task.Assignments))
	for _, assignment := range task.Assignments {
		if summary := ToUserSummaryDTO(assignment.User); summary != nil {
			dto.Assignees = append(dto.Assignees, *summary)
			names = append(names, summary.FullName)
		}
	}
	dto.AssignedTo = UnassignedLabel
	if len(names) > 0 {
		dto.AssignedTo = strings.Join(names, ", ")
	}

	// Include the work log if preloaded
	if len(task.Updates) > 0 {
		dto.Updates = ToTaskUpdateDTOs(task.Updates)
	}

	return dto
}

// ToTaskDTOs converts tasks, never returning nil
func ToTaskDTOs(tasks []models.Task, now time.Time) []TaskDTO {
	result := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		result[i] = ToTaskDTO(task, now)
	}
	return result
}
