package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

// DashboardHandler serves the dashboards
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// AdminDashboard returns the organisation-wide counters and rollups
func (h *DashboardHandler) AdminDashboard(c *gin.Context) {
	dashboard, err := h.dashboardService.AdminDashboard()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAdminDashboardDTO(dashboard, time.Now()))
}

// EmployeeDashboard returns the counters for the current user's tasks
func (h *DashboardHandler) EmployeeDashboard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.EmployeeDashboard(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
