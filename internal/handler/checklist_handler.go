package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"facilityaudit/internal/middleware"
	"facilityaudit/internal/model"
	"facilityaudit/internal/repository"
	"facilityaudit/internal/report"
	"facilityaudit/internal/service"
)

// ChecklistHandler serves CRUD and report endpoints for one checklist variant.
type ChecklistHandler[T any, P repository.ChecklistPtr[T]] struct {
	prefix string
	svc    service.ChecklistService[P]
}

// NewChecklistHandler creates a handler mounted under prefix, for example "/fire-alarm".
func NewChecklistHandler[T any, P repository.ChecklistPtr[T]](prefix string, svc service.ChecklistService[P]) *ChecklistHandler[T, P] {
	return &ChecklistHandler[T, P]{prefix: prefix, svc: svc}
}

// Prefix returns the route prefix of the handler.
func (h *ChecklistHandler[T, P]) Prefix() string { return h.prefix }

// Mount registers the checklist routes on g.
func (h *ChecklistHandler[T, P]) Mount(g *echo.Group) {
	g.GET("/", h.List)
	g.POST("/", h.Create)
	g.GET("/reports/", h.Report)
	g.GET("/reports/quick/:kind/", h.QuickReport)
	g.GET("/:id/", h.Get)
	g.PUT("/:id/", h.Replace)
	g.PATCH("/:id/", h.Patch)
	g.DELETE("/:id/", h.Delete)
}

// Create godoc
// @Summary Submit a checklist
// @Description Creates a pending base inspection and the checklist in one transaction.
// @Tags checklists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param checklist path string true "fire-alarm, smoke-alarm, health-safety, medication-comprehensive, weekly-medication-audit or first-aid"
// @Param request body model.FireAlarmChecklist true "Checklist fields plus location, client_name and inspection_date"
// @Success 201 {object} model.FireAlarmChecklist
// @Failure 400 {object} errors.ErrorResponse
// @Router /{checklist}/ [post]
func (h *ChecklistHandler[T, P]) Create(c echo.Context) error {
	var header service.InspectionHeader
	checklist := P(new(T))
	if err := bind(c, &header, checklist); err != nil {
		return fail(c, err)
	}
	if err := c.Validate(checklist); err != nil {
		return fail(c, err)
	}
	created, err := h.svc.Create(c.Request().Context(), middleware.CurrentUser(c), header, checklist)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// List godoc
// @Summary List visible checklists
// @Tags checklists
// @Produce json
// @Security BearerAuth
// @Param checklist path string true "Checklist path"
// @Success 200 {array} model.FireAlarmChecklist
// @Router /{checklist}/ [get]
func (h *ChecklistHandler[T, P]) List(c echo.Context) error {
	rows, err := h.svc.List(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// Get godoc
// @Summary Get a checklist
// @Tags checklists
// @Produce json
// @Security BearerAuth
// @Param checklist path string true "Checklist path"
// @Param id path int true "Checklist ID"
// @Success 200 {object} model.FireAlarmChecklist
// @Failure 404 {object} errors.ErrorResponse
// @Router /{checklist}/{id}/ [get]
func (h *ChecklistHandler[T, P]) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}
	row, err := h.svc.Get(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, row)
}

// Replace godoc
// @Summary Replace a checklist
// @Description Fields missing from the body are reset to their zero value.
// @Tags checklists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param checklist path string true "Checklist path"
// @Param id path int true "Checklist ID"
// @Param request body model.FireAlarmChecklist true "Checklist fields"
// @Success 200 {object} model.FireAlarmChecklist
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /{checklist}/{id}/ [put]
func (h *ChecklistHandler[T, P]) Replace(c echo.Context) error {
	return h.update(c, func(body []byte, row P) error {
		fresh := new(T)
		if err := decode(body, fresh); err != nil {
			return err
		}
		*row = *fresh
		return nil
	})
}

// Patch godoc
// @Summary Partially update a checklist
// @Description List fields such as items replace the stored list.
// @Tags checklists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param checklist path string true "Checklist path"
// @Param id path int true "Checklist ID"
// @Param request body model.FireAlarmChecklist true "Fields to change"
// @Success 200 {object} model.FireAlarmChecklist
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /{checklist}/{id}/ [patch]
func (h *ChecklistHandler[T, P]) Patch(c echo.Context) error {
	return h.update(c, func(body []byte, row P) error {
		if r, ok := any(row).(model.ChildReplacer); ok {
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(body, &fields); err != nil {
				return errInvalidBody
			}
			for field := range fields {
				r.ClearChildren(field)
			}
		}
		return decode(body, row)
	})
}

func (h *ChecklistHandler[T, P]) update(c echo.Context, merge func([]byte, P) error) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}
	body, err := readBody(c)
	if err != nil {
		return fail(c, err)
	}
	var header service.InspectionHeader
	if err := decode(body, &header); err != nil {
		return fail(c, err)
	}
	updated, err := h.svc.Update(c.Request().Context(), middleware.CurrentUser(c), id, header, func(row P) error {
		if err := merge(body, row); err != nil {
			return err
		}
		return c.Validate(row)
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete godoc
// @Summary Soft delete a checklist
// @Tags checklists
// @Security BearerAuth
// @Param checklist path string true "Checklist path"
// @Param id path int true "Checklist ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /{checklist}/{id}/ [delete]
func (h *ChecklistHandler[T, P]) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.svc.Delete(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Report godoc
// @Summary Export visible checklists
// @Tags reports
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Produce json
// @Security BearerAuth
// @Param checklist path string true "Checklist path"
// @Param format query string false "pdf, excel, xlsx, csv or json" default(pdf)
// @Param status query string false "all, pending, approved, rejected or completed" default(all)
// @Param date_from query string false "YYYY-MM-DD"
// @Param date_to query string false "YYYY-MM-DD"
// @Success 200 {file} file
// @Failure 400 {object} errors.ErrorResponse
// @Router /{checklist}/reports/ [get]
func (h *ChecklistHandler[T, P]) Report(c echo.Context) error {
	file, err := h.svc.Report(c.Request().Context(), middleware.CurrentUser(c), service.ReportInput{
		Format:   c.QueryParam("format"),
		Status:   c.QueryParam("status"),
		DateFrom: c.QueryParam("date_from"),
		DateTo:   c.QueryParam("date_to"),
	})
	if err != nil {
		return fail(c, err)
	}
	return attachment(c, file)
}

// QuickReport godoc
// @Summary Export a preset report
// @Description summary is a PDF of the last 30 days, detailed an XLSX of every row, analytics a PDF of status totals.
// @Tags reports
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param checklist path string true "Checklist path"
// @Param kind path string true "summary, detailed or analytics"
// @Success 200 {file} file
// @Failure 400 {object} errors.ErrorResponse
// @Router /{checklist}/reports/quick/{kind}/ [get]
func (h *ChecklistHandler[T, P]) QuickReport(c echo.Context) error {
	kind := service.QuickReportKind(c.Param("kind"))
	file, err := h.svc.QuickReport(c.Request().Context(), middleware.CurrentUser(c), kind)
	if err != nil {
		return fail(c, err)
	}
	return attachment(c, file)
}

func attachment(c echo.Context, file *report.File) error {
	h := c.Response().Header()
	h.Set(echo.HeaderContentDisposition, `attachment; filename="`+file.Name+`"`)
	h.Set(echo.HeaderContentLength, strconv.Itoa(len(file.Body)))
	return c.Blob(http.StatusOK, file.ContentType, file.Body)
}
