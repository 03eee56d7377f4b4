package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

var now = time.Date(2024, 6, 14, 10, 0, 0, 0, time.UTC)

func task(status models.TaskStatus, due time.Time, updated time.Time) models.Task {
	return models.Task{Status: status, DueDate: due, UpdatedAt: updated}
}

func TestCount(t *testing.T) {
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	tasks := []models.Task{
		task(models.TaskStatusPending, tomorrow, now),
		task(models.TaskStatusPending, yesterday, now),
		task(models.TaskStatusInProgress, yesterday, now),
		task(models.TaskStatusCompleted, yesterday, now),
	}

	c := Count(tasks, now)
	assert.Equal(t, Counts{Total: 4, Pending: 2, InProgress: 1, Completed: 1, Overdue: 2}, c)

	assert.Equal(t, Counts{}, Count(nil, now))
}

func TestCount_OverdueFlipsOnCompletion(t *testing.T) {
	tasks := []models.Task{task(models.TaskStatusInProgress, now.Add(-time.Minute), now)}
	assert.Equal(t, 1, Count(tasks, now).Overdue)

	tasks[0].Status = models.TaskStatusCompleted
	assert.Equal(t, 0, Count(tasks, now).Overdue)
}

func TestDaily(t *testing.T) {
	tasks := []models.Task{
		task(models.TaskStatusPending, now.Add(-time.Hour), now),
		task(models.TaskStatusCompleted, now.Add(time.Hour), now),
	}

	assert.Equal(t, DailyReport{TotalTasks: 2, Pending: 1, Completed: 1, Overdue: 1}, Daily(tasks, now))
}

func TestProductivity(t *testing.T) {
	assert.Equal(t, 75, Productivity(3, 4))
	assert.Equal(t, 0, Productivity(0, 0))
	assert.Equal(t, 33, Productivity(1, 3))
	assert.Equal(t, 67, Productivity(2, 3))
	assert.Equal(t, 100, Productivity(5, 5))
}

func TestWeekly(t *testing.T) {
	due := now.Add(48 * time.Hour)
	recent := now.Add(-2 * 24 * time.Hour)
	old := now.Add(-10 * 24 * time.Hour)

	tasks := []models.Task{
		task(models.TaskStatusCompleted, due, recent),
		task(models.TaskStatusCompleted, due, recent),
		task(models.TaskStatusCompleted, due, now),
		task(models.TaskStatusCompleted, due, old),
		task(models.TaskStatusPending, due, recent),
		task(models.TaskStatusInProgress, due, recent),
	}
	updates := []models.TaskUpdate{
		{HoursWorked: 2.5, CreatedAt: recent},
		{HoursWorked: 1.25, CreatedAt: now},
		{HoursWorked: 8, CreatedAt: old},
	}

	r := Weekly(tasks, updates, now)
	assert.Equal(t, 6, r.TotalTasks)
	assert.Equal(t, 3, r.CompletedThisWeek)
	assert.Equal(t, 1, r.Pending)
	assert.Equal(t, 1, r.InProgress)
	assert.Equal(t, "3.75", r.TotalHours)
	assert.Equal(t, 50, r.Productivity)
}

func TestWeekly_SeventyFivePercent(t *testing.T) {
	recent := now.Add(-time.Hour)
	tasks := []models.Task{
		task(models.TaskStatusCompleted, now, recent),
		task(models.TaskStatusCompleted, now, recent),
		task(models.TaskStatusCompleted, now, recent),
		task(models.TaskStatusPending, now, recent),
	}

	r := Weekly(tasks, nil, now)
	assert.Equal(t, 75, r.Productivity)
	assert.Equal(t, "0.00", r.TotalHours)
}

func TestWeekly_NoTasks(t *testing.T) {
	r := Weekly(nil, nil, now)
	assert.Equal(t, WeeklyReport{TotalHours: "0.00"}, r)
}

func TestWeekWindow_Boundaries(t *testing.T) {
	from, to := WeekWindow(now)
	assert.True(t, within(from, from, to))
	assert.True(t, within(to, from, to))
	assert.False(t, within(from.Add(-time.Nanosecond), from, to))
	assert.False(t, within(to.Add(time.Nanosecond), from, to))
}
