package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"courseware/internal/errors"
	"courseware/internal/repository"
	"courseware/internal/service"
)

// LessonHandler bundles the lesson endpoints.
type LessonHandler struct {
	svc service.LessonService
}

// NewLessonHandler creates a handler layer.
func NewLessonHandler(svc service.LessonService) *LessonHandler {
	return &LessonHandler{svc: svc}
}

// LessonRequest carries the writable lesson fields. Courses lists the ids
// of the courses the lesson belongs to and replaces the set on update.
type LessonRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Item     int    `json:"item"`
	Position int    `json:"position"`
	Courses  []uint `json:"courses" validate:"dive,min=1"`
}

func (r *LessonRequest) toInput() service.LessonInput {
	return service.LessonInput{
		Title:     r.Title,
		Item:      r.Item,
		Position:  r.Position,
		CourseIDs: r.Courses,
	}
}

// List returns lessons ordered by position, optionally narrowed by the
// `course` and `search` query parameters.
func (h *LessonHandler) List(c echo.Context) error {
	var filter repository.LessonFilter
	if raw := c.QueryParam("course"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid course filter")
		}
		courseID := uint(id)
		filter.CourseID = &courseID
	}
	filter.Search = c.QueryParam("search")

	lessons, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, lessons)
}

// Create makes a lesson and echoes it back with id and slug assigned.
func (h *LessonHandler) Create(c echo.Context) error {
	var req LessonRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	lesson, err := h.svc.Create(c.Request().Context(), req.toInput())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, lesson)
}

// Get returns a single lesson.
func (h *LessonHandler) Get(c echo.Context) error {
	id, err := entityID(c)
	if err != nil {
		return err
	}

	lesson, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, lesson)
}

// Update replaces a lesson's fields and re-derives the slug.
func (h *LessonHandler) Update(c echo.Context) error {
	id, err := entityID(c)
	if err != nil {
		return err
	}

	var req LessonRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	lesson, err := h.svc.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, lesson)
}

// Delete removes a lesson; its slides keep existing with the lesson
// pointer cleared.
func (h *LessonHandler) Delete(c echo.Context) error {
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
