package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/storage"
	"github.com/yukikurage/task-tracker-api/internal/testutil"
)

type TaskUpdateHandlerTestSuite struct {
	suite.Suite
	env     *handlerEnv
	handler *TaskUpdateHandler
	task    *models.Task
}

func (suite *TaskUpdateHandlerTestSuite) SetupTest() {
	suite.env = setupHandlerEnv(suite.T())
	suite.handler = NewTaskUpdateHandler(suite.env.taskService, suite.env.store)
	suite.task = testutil.CreateTask(suite.T(), suite.env.db, suite.env.admin.ID, "Fix login page", models.TaskStatusPending, time.Now().Add(72*time.Hour), suite.env.employee.ID)
}

func (suite *TaskUpdateHandlerTestSuite) multipartContext(fields map[string]string, files map[string][]byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		suite.Require().NoError(writer.WriteField(k, v))
	}
	for name, content := range files {
		part, err := writer.CreateFormFile(constants.AttachmentFormField, name)
		suite.Require().NoError(err)
		_, err = part.Write(content)
		suite.Require().NoError(err)
	}
	suite.Require().NoError(writer.Close())

	c, w := authContext(http.MethodPost, "/api/task-updates", nil, user)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/task-updates", &body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	return c, w
}

func (suite *TaskUpdateHandlerTestSuite) storedFiles() []os.DirEntry {
	entries, err := os.ReadDir(suite.env.store.Dir())
	suite.Require().NoError(err)
	return entries
}

func (suite *TaskUpdateHandlerTestSuite) TestSubmitUpdate_JSON() {
	body := mustJSON(suite.T(), map[string]interface{}{
		"task_id":      suite.task.ID,
		"comment":      "Started on the layout",
		"status":       "In-Progress",
		"hours_worked": 2.5,
	})

	c, w := authContext(http.MethodPost, "/api/task-updates", body, suite.env.employee)
	suite.handler.SubmitUpdate(c)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var response dto.TaskUpdateResponse
	decode(suite.T(), w, &response)
	suite.Equal("Task update added successfully", response.Message)
	suite.Equal(2.5, response.Update.HoursWorked)
	suite.Equal(suite.env.employee.ID, response.Update.UserID)
	suite.NotNil(response.Update.Attachments)
	suite.Empty(response.Update.Attachments)

	task, err := suite.env.taskService.GetTask(suite.task.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusInProgress, task.Status)
}

func (suite *TaskUpdateHandlerTestSuite) TestSubmitUpdate_MultipartWithAttachments() {
	c, w := suite.multipartContext(map[string]string{
		"task_id":      fmt.Sprint(suite.task.ID),
		"comment":      "Screenshots of the fix",
		"status":       "Completed",
		"hours_worked": "1.5",
	}, map[string][]byte{
		"before.png": []byte("before"),
		"after.PNG":  []byte("after!"),
	}, suite.env.employee)

	suite.handler.SubmitUpdate(c)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var response dto.TaskUpdateResponse
	decode(suite.T(), w, &response)
	suite.Require().Len(response.Update.Attachments, 2)
	for _, a := range response.Update.Attachments {
		suite.Equal(storage.PublicPrefix+"/"+a.StoredName, a.Path)
		suite.Equal(".png", filepath.Ext(a.StoredName))
		_, err := os.Stat(filepath.Join(suite.env.store.Dir(), a.StoredName))
		suite.NoError(err)
	}
	suite.Len(suite.storedFiles(), 2)
}

func (suite *TaskUpdateHandlerTestSuite) TestSubmitUpdate_InvalidRemovesUploadedFiles() {
	c, w := suite.multipartContext(map[string]string{
		"task_id":      fmt.Sprint(suite.task.ID),
		"comment":      "ok",
		"status":       "Completed",
		"hours_worked": "30",
	}, map[string][]byte{
		"notes.txt": []byte("notes"),
	}, suite.env.employee)

	suite.handler.SubmitUpdate(c)

	suite.Require().Equal(http.StatusBadRequest, w.Code)

	var response errorBody
	decode(suite.T(), w, &response)
	suite.Len(response.Details, 2)
	suite.Empty(suite.storedFiles())
}

func (suite *TaskUpdateHandlerTestSuite) TestSubmitUpdate_NonNumericHours() {
	c, w := suite.multipartContext(map[string]string{
		"task_id":      fmt.Sprint(suite.task.ID),
		"comment":      "Worked on it",
		"status":       "Completed",
		"hours_worked": "lots",
	}, nil, suite.env.employee)

	suite.handler.SubmitUpdate(c)

	suite.Require().Equal(http.StatusBadRequest, w.Code)

	var response errorBody
	decode(suite.T(), w, &response)
	suite.Equal([]string{"Hours worked must be a positive number"}, response.Details)
}

func (suite *TaskUpdateHandlerTestSuite) TestSubmitUpdate_ReportsEveryViolation() {
	c, w := suite.multipartContext(map[string]string{
		"task_id":      fmt.Sprint(suite.task.ID),
		"comment":      "ok",
		"status":       "Done",
		"hours_worked": "lots",
	}, map[string][]byte{
		"notes.txt": []byte("notes"),
	}, suite.env.employee)

	suite.handler.SubmitUpdate(c)

	suite.Require().Equal(http.StatusBadRequest, w.Code)

	var response errorBody
	decode(suite.T(), w, &response)
	suite.ElementsMatch([]string{
		"Comment must be at least 5 characters long",
		"Invalid status. Must be Pending, In-Progress, or Completed",
		"Hours worked must be a positive number",
	}, response.Details)
	suite.Empty(suite.storedFiles())

	task, err := suite.env.taskService.GetTask(suite.task.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusPending, task.Status)
	suite.Empty(task.Updates)
}

func (suite *TaskUpdateHandlerTestSuite) TestSubmitUpdate_NotAssigned() {
	body := mustJSON(suite.T(), map[string]interface{}{
		"task_id":      suite.task.ID,
		"comment":      "Trying to help",
		"status":       "In-Progress",
		"hours_worked": 1,
	})

	c, w := authContext(http.MethodPost, "/api/task-updates", body, suite.env.colleague)
	suite.handler.SubmitUpdate(c)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TaskUpdateHandlerTestSuite) TestSubmitUpdate_MissingTaskID() {
	body := mustJSON(suite.T(), map[string]interface{}{
		"comment":      "Started on the layout",
		"status":       "In-Progress",
		"hours_worked": 1,
	})

	c, w := authContext(http.MethodPost, "/api/task-updates", body, suite.env.employee)
	suite.handler.SubmitUpdate(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskUpdateHandlerTestSuite) TestSubmitUpdate_UnknownTask() {
	body := mustJSON(suite.T(), map[string]interface{}{
		"task_id":      9999,
		"comment":      "Started on the layout",
		"status":       "In-Progress",
		"hours_worked": 1,
	})

	c, w := authContext(http.MethodPost, "/api/task-updates", body, suite.env.employee)
	suite.handler.SubmitUpdate(c)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskUpdateHandlerTestSuite) TestListUpdates() {
	for _, comment := range []string{"First entry", "Second entry"} {
		body := mustJSON(suite.T(), map[string]interface{}{
			"task_id":      suite.task.ID,
			"comment":      comment,
			"status":       "In-Progress",
			"hours_worked": 1,
		})
		c, w := authContext(http.MethodPost, "/api/task-updates", body, suite.env.employee)
		suite.handler.SubmitUpdate(c)
		suite.Require().Equal(http.StatusCreated, w.Code)
	}

	c, w := authContext(http.MethodGet, "/api/task-updates/1", nil, suite.env.employee)
	withParam(c, "taskId", fmt.Sprint(suite.task.ID))
	suite.handler.ListUpdates(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response []dto.TaskUpdateDTO
	decode(suite.T(), w, &response)
	suite.Require().Len(response, 2)
	suite.Require().NotNil(response[0].User)
	suite.Equal(suite.env.employee.Username, response[0].User.Username)
}

func TestTaskUpdateHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskUpdateHandlerTestSuite))
}
