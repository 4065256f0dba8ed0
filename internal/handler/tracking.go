package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parketr3s/parke-tres/internal/tracking"
)

// TrackingHandler exposes the live session controls used by the worker
// dashboard: the board listing, pause/resume/end and time recharges.
type TrackingHandler struct {
	Engine *tracking.Engine
}

func NewTrackingHandler(engine *tracking.Engine) *TrackingHandler {
	return &TrackingHandler{Engine: engine}
}

// Board returns visitors with running or paused sessions.
func (h *TrackingHandler) Board(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"visitors": h.Engine.Board()})
}

// List returns every visitor known to the tracker, including the ones
// still waiting for check-in and the finished ones.
func (h *TrackingHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"visitors": h.Engine.ListAll()})
}

func (h *TrackingHandler) Get(c echo.Context) error {
	v, err := h.Engine.Get(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "visitor not found"})
	}
	return c.JSON(http.StatusOK, v)
}

func (h *TrackingHandler) Start(c echo.Context) error {
	return h.transition(c, h.Engine.Start)
}

func (h *TrackingHandler) Pause(c echo.Context) error {
	return h.transition(c, h.Engine.Pause)
}

func (h *TrackingHandler) Resume(c echo.Context) error {
	return h.transition(c, h.Engine.Resume)
}

func (h *TrackingHandler) End(c echo.Context) error {
	return h.transition(c, h.Engine.End)
}

type addTimeReq struct {
	Minutes int `json:"minutes"`
}

// AddTime recharges minutes onto a session in any non-finished state.
func (h *TrackingHandler) AddTime(c echo.Context) error {
	var req addTimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	id := c.Param("id")
	if err := h.Engine.AddTime(id, req.Minutes); err != nil {
		return trackingError(c, err)
	}
	v, _ := h.Engine.Get(id)
	return c.JSON(http.StatusOK, v)
}

func (h *TrackingHandler) transition(c echo.Context, op func(string) error) error {
	id := c.Param("id")
	if err := op(id); err != nil {
		return trackingError(c, err)
	}
	v, _ := h.Engine.Get(id)
	return c.JSON(http.StatusOK, v)
}

func trackingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, tracking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "visitor not found"})
	case errors.Is(err, tracking.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, tracking.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "operation failed"})
	}
}
