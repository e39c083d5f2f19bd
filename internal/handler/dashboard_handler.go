package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"facilityaudit/internal/middleware"
	"facilityaudit/internal/service"
)

// DashboardHandler serves aggregate statistics.
type DashboardHandler struct {
	svc service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Stats godoc
// @Summary Inspection and user totals
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DashboardStats
// @Failure 403 {object} errors.ErrorResponse
// @Router /dashboard/stats/ [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// InspectionTypes godoc
// @Summary Status breakdown per inspection type
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.TypeStats
// @Failure 403 {object} errors.ErrorResponse
// @Router /dashboard/inspection-types/ [get]
func (h *DashboardHandler) InspectionTypes(c echo.Context) error {
	stats, err := h.svc.InspectionTypeStats(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
