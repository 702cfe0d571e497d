package controller

import (
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// DashboardController serves the dashboard.
type DashboardController struct {
	DashboardService *service.DashboardService
}

// NewDashboardController creates a DashboardController.
func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// GetDashboard godoc
// @Summary Role-specific dashboard
// @Tags Dashboard
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Dashboard} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	data, err := c.DashboardService.Get(ctx.Request.Context(), sess)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, data)
}
