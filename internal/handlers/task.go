package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns every task (administrator view)
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskService.ListAllTasks()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks, time.Now()))
}

// ListMyTasks returns the tasks assigned to the current user with their work log
func (h *TaskHandler) ListMyTasks(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasksForUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks, time.Now()))
}

// GetTask returns a specific task by ID.
// Access has already been checked by RequireTaskAccess.
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := middleware.GetTaskID(c)
	if !ok {
		if taskID, ok = parseIDParam(c, "id"); !ok {
			return
		}
	}

	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, time.Now()))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string              `json:"title"`
		Description string              `json:"description"`
		Priority    models.TaskPriority `json:"priority"`
		DueDate     string              `json:"due_date"`
		AssigneeIDs []uint64            `json:"assignee_ids"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dueDate, err := parseDate(req.DueDate)

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:            req.Title,
		Description:      req.Description,
		Priority:         req.Priority,
		DueDate:          dueDate,
		AssigneeIDs:      req.AssigneeIDs,
		CreatorID:        userID,
		DueDateMalformed: err != nil,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.TaskResponse{
		Message: "Task created successfully",
		Task:    dto.ToTaskDTO(*task, time.Now()),
	})
}

// UpdateTask updates an existing task. Sending assignee_ids, even as an empty
// list, replaces the whole assignee set.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateTaskRequest struct {
		Title       *string              `json:"title"`
		Description *string              `json:"description"`
		Priority    *models.TaskPriority `json:"priority"`
		Status      *models.TaskStatus   `json:"status"`
		DueDate     *string              `json:"due_date"`
		AssigneeIDs *[]uint64            `json:"assignee_ids"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var (
		dueDate          *time.Time
		dueDateMalformed bool
	)
	if req.DueDate != nil {
		parsed, err := parseDate(*req.DueDate)
		dueDateMalformed = err != nil || parsed == nil
		dueDate = parsed
	}

	task, err := h.taskService.UpdateTask(taskID, actor, services.UpdateTaskInput{
		Title:            req.Title,
		Description:      req.Description,
		Priority:         req.Priority,
		Status:           req.Status,
		DueDate:          dueDate,
		AssigneeIDs:      req.AssigneeIDs,
		DueDateMalformed: dueDateMalformed,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskResponse{
		Message: "Task updated successfully",
		Task:    dto.ToTaskDTO(*task, time.Now()),
	})
}

// DeleteTask deletes a task together with its assignments and work log
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
