package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "facilityaudit/internal/errors"
	"facilityaudit/internal/middleware"
	"facilityaudit/internal/model"
	"facilityaudit/internal/service"
)

// InspectionHandler serves the base inspection workflow endpoints.
type InspectionHandler struct {
	svc service.InspectionService
}

// NewInspectionHandler creates a new inspection handler.
func NewInspectionHandler(svc service.InspectionService) *InspectionHandler {
	return &InspectionHandler{svc: svc}
}

// Conduct godoc
// @Summary Record that an inspection was carried out
// @Tags inspections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Base inspection ID"
// @Param request body service.ConductInput false "Comments and outcome (completed or rejected)"
// @Success 200 {object} model.BaseInspection
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /base/conduct/{id}/ [post]
func (h *InspectionHandler) Conduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}
	var in service.ConductInput
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	inspection, err := h.svc.Conduct(c.Request().Context(), middleware.CurrentUser(c), id, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, inspection)
}

// Approve godoc
// @Summary Approve or reject a conducted inspection
// @Tags inspections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Base inspection ID"
// @Param request body service.ApproveInput false "Comments and decision (approved or rejected)"
// @Success 200 {object} model.BaseInspection
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /base/approve/{id}/ [post]
func (h *InspectionHandler) Approve(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}
	var in service.ApproveInput
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	inspection, err := h.svc.Approve(c.Request().Context(), middleware.CurrentUser(c), id, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, inspection)
}

// Get godoc
// @Summary Get a base inspection
// @Tags inspections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Base inspection ID"
// @Success 200 {object} model.BaseInspection
// @Failure 404 {object} errors.ErrorResponse
// @Router /base/{id}/ [get]
func (h *InspectionHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}
	inspection, err := h.svc.Get(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, inspection)
}

// History godoc
// @Summary List the audit trail of a base inspection
// @Tags inspections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Base inspection ID"
// @Success 200 {array} model.InspectionEvent
// @Failure 404 {object} errors.ErrorResponse
// @Router /base/{id}/history/ [get]
func (h *InspectionHandler) History(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}
	events, err := h.svc.History(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

// Search godoc
// @Summary Search visible base inspections
// @Tags inspections
// @Produce json
// @Security BearerAuth
// @Param inspection_type query string false "Inspection type"
// @Param status query string false "Status"
// @Param client_name query string false "Client name contains"
// @Param location query string false "Location contains"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {array} model.BaseInspection
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /base/search/ [get]
func (h *InspectionHandler) Search(c echo.Context) error {
	in := service.SearchInput{
		Type:       model.InspectionType(strings.TrimSpace(c.QueryParam("inspection_type"))),
		Status:     model.InspectionStatus(strings.TrimSpace(c.QueryParam("status"))),
		ClientName: c.QueryParam("client_name"),
		Location:   c.QueryParam("location"),
	}
	var err error
	if in.From, err = queryDate(c, "start_date"); err != nil {
		return fail(c, err)
	}
	if in.To, err = queryDate(c, "end_date"); err != nil {
		return fail(c, err)
	}
	rows, err := h.svc.Search(c.Request().Context(), middleware.CurrentUser(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func queryDate(c echo.Context, name string) (*time.Time, error) {
	value := strings.TrimSpace(c.QueryParam(name))
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, apperrors.ErrInvalidDate
	}
	return &t, nil
}
