// Package stats derives dashboard and report figures from task snapshots.
// Nothing is cached: every call recomputes from the tasks it is given.
package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

// Counts are the per-status task counters shared by dashboards and reports
type Counts struct {
	Total      int `json:"total_tasks"`
	Pending    int `json:"pending_tasks"`
	InProgress int `json:"in_progress_tasks"`
	Completed  int `json:"completed_tasks"`
	Overdue    int `json:"overdue_tasks"`
}

// Count tallies tasks by status. Overdue is evaluated against now.
func Count(tasks []models.Task, now time.Time) Counts {
	var c Counts
	for i := range tasks {
		t := &tasks[i]
		c.Total++
		switch t.Status {
		case models.TaskStatusPending:
			c.Pending++
		case models.TaskStatusInProgress:
			c.InProgress++
		case models.TaskStatusCompleted:
			c.Completed++
		}
		if t.IsOverdue(now) {
			c.Overdue++
		}
	}
	return c
}

// DailyReport is the payload of the daily email
type DailyReport struct {
	TotalTasks int `json:"total_tasks"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Overdue    int `json:"overdue"`
}

// Daily builds the daily report from the user's assigned tasks
func Daily(tasks []models.Task, now time.Time) DailyReport {
	c := Count(tasks, now)
	return DailyReport{
		TotalTasks: c.Total,
		Pending:    c.Pending,
		InProgress: c.InProgress,
		Completed:  c.Completed,
		Overdue:    c.Overdue,
	}
}

// WeeklyReport is the payload of the weekly email.
// InProgress is only reported by the stats endpoint, not mailed.
type WeeklyReport struct {
	TotalTasks        int    `json:"total_tasks"`
	CompletedThisWeek int    `json:"completed_this_week"`
	Pending           int    `json:"pending"`
	InProgress        int    `json:"in_progress"`
	TotalHours        string `json:"total_hours"`
	Productivity      int    `json:"productivity"`
}

// WeekWindow returns the trailing window [now-7d, now]
func WeekWindow(now time.Time) (time.Time, time.Time) {
	return now.Add(-constants.WeeklyWindow), now
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

// Weekly builds the weekly report. Task and status totals are all-time; only
// completions (by last modification) and hours (by submission time) are
// restricted to the trailing week.
func Weekly(tasks []models.Task, updates []models.TaskUpdate, now time.Time) WeeklyReport {
	from, to := WeekWindow(now)

	r := WeeklyReport{TotalTasks: len(tasks)}
	for i := range tasks {
		t := &tasks[i]
		switch t.Status {
		case models.TaskStatusPending:
			r.Pending++
		case models.TaskStatusInProgress:
			r.InProgress++
		case models.TaskStatusCompleted:
			if within(t.UpdatedAt, from, to) {
				r.CompletedThisWeek++
			}
		}
	}

	var hours float64
	for i := range updates {
		if within(updates[i].CreatedAt, from, to) {
			hours += updates[i].HoursWorked
		}
	}
	r.TotalHours = fmt.Sprintf("%.2f", hours)
	r.Productivity = Productivity(r.CompletedThisWeek, r.TotalTasks)

	return r
}

// Productivity is round(100*completed/total), or 0 without tasks
func Productivity(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
