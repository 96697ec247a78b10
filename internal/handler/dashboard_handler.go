package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medconsole/admin-backend/internal/response"
	"github.com/medconsole/admin-backend/internal/service"
)

// DashboardHandler handles admin dashboard endpoints.
type DashboardHandler struct {
	dashboardService *service.DashboardService
	activityService  *service.ActivityService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService, activityService *service.ActivityService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, activityService: activityService}
}

// GetDashboardData godoc
// GET /api/v1/admin/dashboard
// Returns user, identity and consultation statistics plus recent activity.
func (h *DashboardHandler) GetDashboardData(c *gin.Context) {
	data, err := h.dashboardService.GetDashboardData(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, data)
}

// ListActivity godoc
// GET /api/v1/admin/activity?limit=50
func (h *DashboardHandler) ListActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultActivityLimit)))

	entries, err := h.activityService.Recent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, entries)
}
