// Package notifier delivers reminders and reports computed by the services.
package notifier

import (
	"context"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/stats"
)

const (
	SubjectTaskReminder = "Task Reminder - Pending Tasks"
	SubjectDailyReport  = "Daily Task Report"
	SubjectWeeklyReport = "Weekly Task Report"

	MessageUnavailable = "Email service not available"
)

// Recipient identifies who a message goes to
type Recipient struct {
	UserID uint64
	Email  string
	Name   string
}

// Result is the outcome of a single delivery attempt
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Notifier sends one message per call and never retries
type Notifier interface {
	SendTaskReminder(ctx context.Context, to Recipient, tasks []models.Task) Result
	SendDailyReport(ctx context.Context, to Recipient, report stats.DailyReport) Result
	SendWeeklyReport(ctx context.Context, to Recipient, report stats.WeeklyReport) Result
}
