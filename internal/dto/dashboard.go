package dto

import (
	"time"

	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/stats"
)

// AdminDashboardDTO flattens the counters next to the rollups
type AdminDashboardDTO struct {
	stats.Counts
	TotalEmployees       int                               `json:"total_employees"`
	EmployeeProductivity []repository.EmployeeProductivity `json:"employee_productivity"`
	RecentTasks          []TaskDTO                         `json:"recent_tasks"`
}

// DailyStatsDTO is the daily report with its period
type DailyStatsDTO struct {
	Period string `json:"period"`
	stats.DailyReport
}

// WeeklyStatsDTO is the weekly report with its period
type WeeklyStatsDTO struct {
	Period string `json:"period"`
	stats.WeeklyReport
}

// ToAdminDashboardDTO converts the admin dashboard
func ToAdminDashboardDTO(d *services.AdminDashboard, now time.Time) AdminDashboardDTO {
	productivity := d.EmployeeProductivity
	if productivity == nil {
		productivity = []repository.EmployeeProductivity{}
	}
	return AdminDashboardDTO{
		Counts:               d.Counts,
		TotalEmployees:       d.TotalEmployees,
		EmployeeProductivity: productivity,
		RecentTasks:          ToTaskDTOs(d.RecentTasks, now),
	}
}

// ToReportStatsDTO flattens the report payload under its period
func ToReportStatsDTO(r *services.ReportStatsResult) interface{} {
	switch report := r.Report.(type) {
	case stats.WeeklyReport:
		return WeeklyStatsDTO{Period: r.Period, WeeklyReport: report}
	case stats.DailyReport:
		return DailyStatsDTO{Period: r.Period, DailyReport: report}
	}
	return r
}
