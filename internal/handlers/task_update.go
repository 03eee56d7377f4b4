package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

// AttachmentStore persists uploaded files and hands back their references
type AttachmentStore interface {
	SaveAll(files []*multipart.FileHeader) (models.Attachments, error)
	Remove(refs models.Attachments)
}

// TaskUpdateHandler serves the work log
type TaskUpdateHandler struct {
	taskService *services.TaskService
	store       AttachmentStore
}

// NewTaskUpdateHandler creates a new TaskUpdateHandler
func NewTaskUpdateHandler(taskService *services.TaskService, store AttachmentStore) *TaskUpdateHandler {
	return &TaskUpdateHandler{
		taskService: taskService,
		store:       store,
	}
}

type submitUpdateRequest struct {
	TaskID      uint64            `json:"task_id"`
	Comment     string            `json:"comment"`
	Status      models.TaskStatus `json:"status"`
	HoursWorked float64           `json:"hours_worked"`

	hoursMalformed bool
}

// SubmitUpdate appends a work-log entry. The body is JSON, or multipart form
// data carrying up to five files under "attachments".
func (h *TaskUpdateHandler) SubmitUpdate(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var (
		req   submitUpdateRequest
		files []*multipart.FileHeader
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if req, files, ok = h.bindMultipart(c); !ok {
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if req.TaskID == 0 {
		apierrors.BadRequest(c, "Valid task ID is required")
		return
	}

	attachments := models.Attachments{}
	if len(files) > 0 {
		saved, err := h.store.SaveAll(files)
		if err != nil {
			respondError(c, err)
			return
		}
		attachments = saved
	}

	update, err := h.taskService.SubmitUpdate(services.SubmitUpdateInput{
		TaskID:         req.TaskID,
		Actor:          actor,
		Comment:        req.Comment,
		Status:         req.Status,
		HoursWorked:    req.HoursWorked,
		Attachments:    attachments,
		HoursMalformed: req.hoursMalformed,
	})
	if err != nil {
		h.store.Remove(attachments)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.TaskUpdateResponse{
		Message: "Task update added successfully",
		Update:  dto.ToTaskUpdateDTO(*update),
	})
}

func (h *TaskUpdateHandler) bindMultipart(c *gin.Context) (submitUpdateRequest, []*multipart.FileHeader, bool) {
	var req submitUpdateRequest

	form, err := c.MultipartForm()
	if err != nil {
		apierrors.BadRequest(c, "Invalid multipart form")
		return req, nil, false
	}

	if v := c.PostForm("task_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Valid task ID is required")
			return req, nil, false
		}
		req.TaskID = id
	}
	if v := c.PostForm("hours_worked"); v != "" {
		hours, err := strconv.ParseFloat(v, 64)
		req.HoursWorked = hours
		req.hoursMalformed = err != nil
	}
	req.Comment = c.PostForm("comment")
	req.Status = models.TaskStatus(c.PostForm("status"))

	return req, form.File[constants.AttachmentFormField], true
}

// ListUpdates returns a task's work log, newest first.
// Access has already been checked by RequireTaskAccess.
func (h *TaskUpdateHandler) ListUpdates(c *gin.Context) {
	taskID, ok := middleware.GetTaskID(c)
	if !ok {
		if taskID, ok = parseIDParam(c, "taskId"); !ok {
			return
		}
	}

	updates, err := h.taskService.ListUpdates(taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskUpdateDTOs(updates))
}
