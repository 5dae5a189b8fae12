package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"courseware/internal/errors"
	"courseware/internal/service"
)

// SlideHandler bundles the lesson-scoped slide endpoints. Slides are
// addressed by lesson id plus position.
type SlideHandler struct {
	svc service.SlideService
}

// NewSlideHandler creates a handler layer.
func NewSlideHandler(svc service.SlideService) *SlideHandler {
	return &SlideHandler{svc: svc}
}

// SlideRequest carries the writable slide fields.
type SlideRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Position int    `json:"position"`
	Content  string `json:"content"`
}

func (r *SlideRequest) toInput() service.SlideInput {
	return service.SlideInput{
		Title:    r.Title,
		Position: r.Position,
		Content:  r.Content,
	}
}

func slidePosition(c echo.Context) (int, error) {
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid position")
	}
	return position, nil
}

// List returns the slides of a lesson ordered by position.
func (h *SlideHandler) List(c echo.Context) error {
	lessonID, err := entityID(c)
	if err != nil {
		return err
	}

	slides, err := h.svc.ListByLesson(c.Request().Context(), lessonID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, slides)
}

// Create makes a slide under the lesson from the URL.
func (h *SlideHandler) Create(c echo.Context) error {
	lessonID, err := entityID(c)
	if err != nil {
		return err
	}

	var req SlideRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	slide, err := h.svc.Create(c.Request().Context(), lessonID, req.toInput())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, slide)
}

// Get returns the slide at a position within a lesson.
func (h *SlideHandler) Get(c echo.Context) error {
	lessonID, err := entityID(c)
	if err != nil {
		return err
	}
	position, err := slidePosition(c)
	if err != nil {
		return err
	}

	slide, err := h.svc.Get(c.Request().Context(), lessonID, position)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, slide)
}

// Update replaces the slide at a position within a lesson.
func (h *SlideHandler) Update(c echo.Context) error {
	lessonID, err := entityID(c)
	if err != nil {
		return err
	}
	position, err := slidePosition(c)
	if err != nil {
		return err
	}

	var req SlideRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	slide, err := h.svc.Update(c.Request().Context(), lessonID, position, req.toInput())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, slide)
}

// Delete removes the slide at a position within a lesson.
func (h *SlideHandler) Delete(c echo.Context) error {
	lessonID, err := entityID(c)
	if err != nil {
		return err
	}
	position, err := slidePosition(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), lessonID, position); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusOK)
}
