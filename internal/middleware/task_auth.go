package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/auth"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
)

// ContextKeyTaskID holds the task ID parsed by RequireTaskAccess
const ContextKeyTaskID = "task_id"

// TaskAccessChecker decides whether an actor may read a task
type TaskAccessChecker interface {
	CheckAccess(taskID uint64, actor auth.Actor) error
}

// RequireTaskAccess checks that the user may view the task named by the URL
// parameter: administrators see every task, employees only their assigned ones.
func RequireTaskAccess(checker TaskAccessChecker, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param(param), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			return
		}

		actor, exists := GetActor(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		if err := checker.CheckAccess(taskID, actor); err != nil {
			apierrors.Respond(c, err)
			return
		}

		c.Set(ContextKeyTaskID, taskID)
		c.Next()
	}
}

// GetTaskID retrieves the task ID stored by RequireTaskAccess
func GetTaskID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(ContextKeyTaskID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}
