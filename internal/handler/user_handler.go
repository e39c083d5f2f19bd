package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"facilityaudit/internal/middleware"
	"facilityaudit/internal/model"
	"facilityaudit/internal/service"
)

// UserHandler bundles HTTP handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// RegistrationRequest holds the user fields of every registration form.
type RegistrationRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required"`
	Password2      string `json:"password2" validate:"required"`
	FirstName      string `json:"first_name" validate:"required,max=100"`
	LastName       string `json:"last_name" validate:"required,max=100"`
	PhoneNumber    string `json:"phone_number" validate:"max=20"`
	ProfilePicture string `json:"profile_picture" validate:"max=255"`
	Bio            string `json:"bio"`
	Location       string `json:"location" validate:"max=255"`
	Address        string `json:"address" validate:"max=255"`
	City           string `json:"city" validate:"max=100"`
	State          string `json:"state" validate:"max=100"`
	Country        string `json:"country" validate:"max=100"`
	Company        string `json:"company" validate:"max=100"`
	Qualification  string `json:"qualification" validate:"max=100"`
}

func (r RegistrationRequest) input(role model.Role) service.RegistrationInput {
	return service.RegistrationInput{
		Email:          r.Email,
		Password:       r.Password,
		Password2:      r.Password2,
		Role:           role,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		PhoneNumber:    r.PhoneNumber,
		ProfilePicture: r.ProfilePicture,
		Bio:            r.Bio,
		Location:       r.Location,
		Address:        r.Address,
		City:           r.City,
		State:          r.State,
		Country:        r.Country,
		Company:        r.Company,
		Qualification:  r.Qualification,
	}
}

// CreateUserRequest is a registration form with an explicit role.
type CreateUserRequest struct {
	RegistrationRequest
	Role model.Role `json:"role" validate:"required,oneof=admin inspector worker client"`
}

// CreateUser godoc
// @Summary Create a user of any role with an empty profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body CreateUserRequest true "User payload"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users/ [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, err)
	}
	created, err := h.svc.CreateUser(c.Request().Context(), middleware.CurrentUser(c), req.input(req.Role))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/ [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}
	user, err := h.svc.GetVisibleUser(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Router /users/ [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateUser godoc
// @Summary Update a user
// @Description Email and role are read only.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param user body service.UserPatch true "Fields to change"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/ [put]
// @Router /users/{id}/ [patch]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}
	return h.update(c, id)
}

// DeleteUser godoc
// @Summary Deactivate a user
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/ [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.svc.DeactivateUser(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me godoc
// @Summary Get the caller's user record
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Router /user/profile/ [get]
func (h *UserHandler) Me(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	user, err := h.svc.GetVisibleUser(c.Request().Context(), actor, actor.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update the caller's user record
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body service.UserPatch true "Fields to change"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Router /user/profile/ [put]
// @Router /user/profile/ [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	return h.update(c, middleware.CurrentUser(c).ID)
}

func (h *UserHandler) update(c echo.Context, id uint) error {
	var patch service.UserPatch
	if err := bind(c, &patch); err != nil {
		return fail(c, err)
	}
	user, err := h.svc.UpdateUser(c.Request().Context(), middleware.CurrentUser(c), id, patch)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
