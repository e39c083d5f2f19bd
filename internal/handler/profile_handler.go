package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"facilityaudit/internal/middleware"
	"facilityaudit/internal/repository"
	"facilityaudit/internal/service"
)

var profileManagedKeys = []string{"id", "user_id", "user", "created_at", "updated_at"}

// ProfileHandler serves registration and profile endpoints for one role.
type ProfileHandler[T any, P repository.ProfilePtr[T]] struct {
	prefix string
	svc    service.ProfileService[P]
}

// NewProfileHandler creates a handler mounted under prefix, for example "/workers".
func NewProfileHandler[T any, P repository.ProfilePtr[T]](prefix string, svc service.ProfileService[P]) *ProfileHandler[T, P] {
	return &ProfileHandler[T, P]{prefix: prefix, svc: svc}
}

// Prefix returns the route prefix of the handler.
func (h *ProfileHandler[T, P]) Prefix() string { return h.prefix }

// Mount registers the profile routes on g.
func (h *ProfileHandler[T, P]) Mount(g *echo.Group) {
	g.GET("/", h.List)
	g.POST("/", h.Register)
	g.GET("/:id/", h.Get)
	g.PUT("/:id/", h.Update)
	g.PATCH("/:id/", h.Update)
	g.DELETE("/:id/", h.Delete)
}

// Register godoc
// @Summary Register a user together with a role profile
// @Description The body carries the user fields plus the role specific profile fields.
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param role path string true "inspectors, admins, workers or clients"
// @Param request body RegistrationRequest true "User and profile fields"
// @Success 201 {object} model.WorkerProfile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /{role}/ [post]
func (h *ProfileHandler[T, P]) Register(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return fail(c, err)
	}
	var req RegistrationRequest
	if err := decode(body, &req); err != nil {
		return fail(c, err)
	}
	profile, err := h.decodeProfile(body, P(new(T)))
	if err != nil {
		return fail(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, err)
	}
	if err := c.Validate(profile); err != nil {
		return fail(c, err)
	}

	created, err := h.svc.Register(c.Request().Context(), middleware.CurrentUser(c), req.input(profile.ProfileRole()), profile)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// List godoc
// @Summary List active profiles of a role
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param role path string true "inspectors, admins, workers or clients"
// @Success 200 {array} model.WorkerProfile
// @Router /{role}/ [get]
func (h *ProfileHandler[T, P]) List(c echo.Context) error {
	profiles, err := h.svc.List(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, profiles)
}

// Get godoc
// @Summary Get a profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param role path string true "inspectors, admins, workers or clients"
// @Param id path int true "Profile ID"
// @Success 200 {object} model.WorkerProfile
// @Failure 404 {object} errors.ErrorResponse
// @Router /{role}/{id}/ [get]
func (h *ProfileHandler[T, P]) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}
	profile, err := h.svc.Get(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// Update godoc
// @Summary Update a profile and its user
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param role path string true "inspectors, admins, workers or clients"
// @Param id path int true "Profile ID"
// @Param request body service.UserPatch true "User and profile fields"
// @Success 200 {object} model.WorkerProfile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /{role}/{id}/ [put]
// @Router /{role}/{id}/ [patch]
func (h *ProfileHandler[T, P]) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}
	body, err := readBody(c)
	if err != nil {
		return fail(c, err)
	}
	var patch service.UserPatch
	if err := decode(body, &patch); err != nil {
		return fail(c, err)
	}

	updated, err := h.svc.Update(c.Request().Context(), middleware.CurrentUser(c), id, patch, func(profile P) error {
		if _, err := h.decodeProfile(body, profile); err != nil {
			return err
		}
		return c.Validate(profile)
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete godoc
// @Summary Deactivate the user behind a profile
// @Tags profiles
// @Security BearerAuth
// @Param role path string true "inspectors, admins, workers or clients"
// @Param id path int true "Profile ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /{role}/{id}/ [delete]
func (h *ProfileHandler[T, P]) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.svc.Deactivate(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// decodeProfile merges the profile fields of body into profile.
func (h *ProfileHandler[T, P]) decodeProfile(body []byte, profile P) (P, error) {
	fields, err := withoutKeys(body, profileManagedKeys...)
	if err != nil {
		return profile, err
	}
	if err := decode(fields, profile); err != nil {
		return profile, err
	}
	return profile, nil
}
