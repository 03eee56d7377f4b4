package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

// NotificationHandler triggers reminders and reports
type NotificationHandler struct {
	reportService *services.ReportService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(reportService *services.ReportService) *NotificationHandler {
	return &NotificationHandler{reportService: reportService}
}

// SendReminders mails every employee with open tasks
func (h *NotificationHandler) SendReminders(c *gin.Context) {
	summary, err := h.reportService.SendPendingTaskReminders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Reminders sent",
		"results":    summary.Results,
		"total_sent": summary.TotalSent,
	})
}

// SendDailyReport mails the current user's daily report
func (h *NotificationHandler) SendDailyReport(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if _, err := h.reportService.SendDailyReport(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Daily report sent successfully"})
}

// SendWeeklyReport mails the current user's weekly report
func (h *NotificationHandler) SendWeeklyReport(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if _, err := h.reportService.SendWeeklyReport(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Weekly report sent successfully"})
}

// ReportStats returns the report payload without sending it
func (h *NotificationHandler) ReportStats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := h.reportService.ReportStats(userID, c.DefaultQuery("period", services.PeriodDaily))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReportStatsDTO(result))
}
