package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"courseware/internal/errors"
	"courseware/internal/repository"
	"courseware/internal/service"
)

// CourseHandler bundles the course endpoints.
type CourseHandler struct {
	svc service.CourseService
}

// NewCourseHandler creates a handler layer.
func NewCourseHandler(svc service.CourseService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

// CourseRequest carries the writable course fields. Description is capped
// at 150 characters; the slug is derived from the title.
type CourseRequest struct {
	Title       string `json:"title" validate:"required,max=120"`
	Description string `json:"description" validate:"max=150"`
	Category    *uint  `json:"category,omitempty"`
}

func (r *CourseRequest) toInput() service.CourseInput {
	return service.CourseInput{
		Title:       r.Title,
		Description: r.Description,
		CategoryID:  r.Category,
	}
}

// List returns courses ordered by title, optionally narrowed by the
// `category` and `search` query parameters.
func (h *CourseHandler) List(c echo.Context) error {
	var filter repository.CourseFilter
	if raw := c.QueryParam("category"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid category filter")
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	filter.Search = c.QueryParam("search")

	courses, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, courses)
}

// Create makes a course and echoes it back with id and slug assigned.
func (h *CourseHandler) Create(c echo.Context) error {
	var req CourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	course, err := h.svc.Create(c.Request().Context(), req.toInput())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, course)
}

// Get returns a single course.
func (h *CourseHandler) Get(c echo.Context) error {
	id, err := entityID(c)
	if err != nil {
		return err
	}

	course, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, course)
}

// Update replaces a course's fields and re-derives the slug from the title.
func (h *CourseHandler) Update(c echo.Context) error {
	id, err := entityID(c)
	if err != nil {
		return err
	}

	var req CourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	course, err := h.svc.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, course)
}

// Delete removes a course.
func (h *CourseHandler) Delete(c echo.Context) error {
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
