package errors

import (
	stderrors "errors"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
)

// ValidationError carries every rule an input violated
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, ", ")
}

// NewValidationError returns nil when there are no violations
func NewValidationError(violations []string) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

// NotFoundError is returned when a referenced entity does not exist
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ConflictError is returned on unique-constraint violations
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// AuthorizationError is returned when the actor may not perform an operation
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// UnavailableError is returned when a collaborator could not complete its side effect
type UnavailableError struct {
	Message string
	Err     error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Respond writes the response matching the error's kind.
// Unknown errors are logged and reported as 500.
func Respond(c *gin.Context, err error) {
	var (
		validationErr    *ValidationError
		notFoundErr      *NotFoundError
		conflictErr      *ConflictError
		authorizationErr *AuthorizationError
		unavailableErr   *UnavailableError
	)

	switch {
	case stderrors.As(err, &validationErr):
		BadRequestWithDetails(c, validationErr.Error(), validationErr.Violations)
	case stderrors.As(err, &notFoundErr):
		NotFound(c, notFoundErr.Error())
	case stderrors.As(err, &conflictErr):
		Conflict(c, conflictErr.Message)
	case stderrors.As(err, &authorizationErr):
		Forbidden(c, authorizationErr.Message)
	case stderrors.As(err, &unavailableErr):
		log.Printf("collaborator unavailable: %v", err)
		ServiceUnavailable(c, unavailableErr.Message)
	default:
		log.Printf("unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		InternalError(c, "")
	}
}
