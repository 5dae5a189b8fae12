package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"courseware/internal/errors"
	"courseware/internal/service"
)

// UserHandler bundles the admin-only user management endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UserRequest carries the full user field set for admin create/update.
type UserRequest struct {
	Email       string `json:"email" validate:"required,email,max=64"`
	Password    string `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
	FirstName   string `json:"first_name" validate:"required,max=64"`
	LastName    string `json:"last_name" validate:"required,max=64"`
	IsStudent   bool   `json:"is_student"`
	IsTeacher   bool   `json:"is_teacher"`
	IsActive    bool   `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

func (r *UserRequest) toInput() service.UserInput {
	return service.UserInput{
		Email:       r.Email,
		Password:    r.Password,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		IsStudent:   r.IsStudent,
		IsTeacher:   r.IsTeacher,
		IsActive:    r.IsActive,
		IsStaff:     r.IsStaff,
		IsSuperuser: r.IsSuperuser,
	}
}

func userID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// List returns all users.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.svc.List(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, users)
}

// Create makes a user with any role combination.
func (h *UserHandler) Create(c echo.Context) error {
	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "password is required")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.svc.Create(c.Request().Context(), req.toInput())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, user)
}

// Get returns a single user by id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	user, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// Update replaces a user's fields; password is re-hashed only when sent.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.svc.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes a user; the profile rows cascade with it.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusOK)
}
