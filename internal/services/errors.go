package services

import (
	"errors"

	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = &apierrors.NotFoundError{Resource: "User"}
	ErrTaskNotFound    = &apierrors.NotFoundError{Resource: "Task"}
	ErrCourierNotFound = &apierrors.NotFoundError{Resource: "Courier"}

	ErrUsernameTaken       = &apierrors.ConflictError{Message: "Username already exists"}
	ErrEmailTaken          = &apierrors.ConflictError{Message: "Email already exists"}
	ErrTrackingNumberTaken = &apierrors.ConflictError{Message: "Tracking number already exists"}

	ErrNotTaskAssignee = &apierrors.AuthorizationError{Message: "You are not assigned to this task"}

	ErrInvalidCredentials = errors.New("invalid credentials")
)

// isDuplicate reports a unique-constraint violation translated by gorm
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
