package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"courseware/internal/errors"
	"courseware/internal/service"
)

// CategoryHandler bundles the category endpoints.
type CategoryHandler struct {
	svc service.CategoryService
}

// NewCategoryHandler creates a handler layer.
func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// CategoryRequest carries the writable category fields; the slug is
// server-assigned.
type CategoryRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Parent *uint  `json:"parent,omitempty"`
}

func entityID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// List returns all categories ordered by slug.
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.svc.List(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, categories)
}

// Create makes a category and echoes it back with id and slug assigned.
func (h *CategoryHandler) Create(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.svc.Create(c.Request().Context(), req.Name, req.Parent)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, category)
}

// Get returns a single category.
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := entityID(c)
	if err != nil {
		return err
	}

	category, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, category)
}

// Update replaces a category's fields and re-derives the slug.
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := entityID(c)
	if err != nil {
		return err
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.svc.Update(c.Request().Context(), id, req.Name, req.Parent)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, category)
}

// Delete removes a category; child categories and courses keep existing
// with their parent pointer cleared.
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := entityID(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusOK)
}
