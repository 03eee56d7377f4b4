package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

// dateLayouts are tried in order when parsing dates from request bodies
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// respondError maps service errors to responses
func respondError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrInvalidCredentials) {
		apierrors.InvalidCredentials(c)
		return
	}
	apierrors.Respond(c, err)
}

// parseIDParam reads a positive numeric path parameter, writing 400 otherwise
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// parseDate accepts RFC 3339, a datetime-local value or a plain date.
// Empty input yields nil.
func parseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("invalid date")
}

// requireUserID writes 401 when the auth middleware did not run
func requireUserID(c *gin.Context) (uint64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
	}
	return userID, ok
}
