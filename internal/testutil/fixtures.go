package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user
const TestPassword = "supersecret"

var testPasswordHash = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

// CreateUser inserts an active user whose email is derived from the username
func CreateUser(t testing.TB, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: testPasswordHash,
		FullName:     "User " + username,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTask inserts a task assigned to the given users
func CreateTask(t testing.TB, db *gorm.DB, creatorID uint64, title string, status models.TaskStatus, due time.Time, assigneeIDs ...uint64) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:     title,
		Priority:  models.TaskPriorityMedium,
		Status:    status,
		DueDate:   due,
		CreatedBy: creatorID,
	}
	require.NoError(t, db.Omit("Creator", "Assignments", "Updates").Create(task).Error)

	for _, userID := range assigneeIDs {
		require.NoError(t, db.Omit("Task", "User").Create(&models.TaskAssignment{TaskID: task.ID, UserID: userID}).Error)
	}
	return task
}

// SetTaskUpdatedAt rewrites updated_at without touching any other column
func SetTaskUpdatedAt(t testing.TB, db *gorm.DB, taskID uint64, at time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&models.Task{}).Where("id = ?", taskID).UpdateColumn("updated_at", at).Error)
}
