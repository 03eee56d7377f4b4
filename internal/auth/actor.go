package auth

import "github.com/yukikurage/task-tracker-api/internal/models"

// Actor is the resolved identity an operation runs on behalf of
type Actor struct {
	UserID uint64
	Role   models.Role
}

func (a Actor) IsAdministrator() bool {
	return a.Role == models.RoleAdministrator
}
