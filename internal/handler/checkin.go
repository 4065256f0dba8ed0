package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/parketr3s/parke-tres/internal/model"
	"github.com/parketr3s/parke-tres/internal/qr"
	"github.com/parketr3s/parke-tres/internal/tracking"
)

// CheckInHandler validates scanned QR tickets at the entrance and starts
// the visitor's session. Operator-facing messages are in Spanish, as on
// the original check-in screen.
type CheckInHandler struct {
	Engine *tracking.Engine
}

func NewCheckInHandler(engine *tracking.Engine) *CheckInHandler {
	return &CheckInHandler{Engine: engine}
}

type checkInReq struct {
	QRData string `json:"qr_data"`
}

type checkInResp struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Visitor *model.Visitor `json:"visitor,omitempty"`
}

// Scan validates the payload and activates the session. Tickets from a
// previous day and finished sessions are rejected; scanning an already
// active visitor reports success without restarting anything.
func (h *CheckInHandler) Scan(c echo.Context) error {
	var req checkInReq
	if err := c.Bind(&req); err != nil || req.QRData == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "qr_data required"})
	}

	payload, err := qr.Parse(req.QRData)
	if err != nil {
		return c.JSON(http.StatusOK, checkInResp{
			Success: false,
			Message: "Código QR inválido. Por favor verifica el código.",
		})
	}
	if !qr.SameDay(payload, time.Now()) {
		return c.JSON(http.StatusOK, checkInResp{
			Success: false,
			Message: "Este QR ya no es válido porque es de una fecha anterior (" +
				qr.FormatDate(payload.Date) + "). Por favor compra una nueva entrada para hoy.",
		})
	}

	v, err := h.Engine.Get(payload.VisitorID)
	if err != nil {
		return c.JSON(http.StatusOK, checkInResp{
			Success: false,
			Message: "No se encontró ninguna entrada con este código.",
		})
	}

	switch v.Status {
	case model.StatusFinished:
		return c.JSON(http.StatusOK, checkInResp{
			Success: false,
			Message: "Esta entrada ya ha sido utilizada y el tiempo ha finalizado.",
			Visitor: &v,
		})
	case model.StatusActive:
		return c.JSON(http.StatusOK, checkInResp{
			Success: true,
			Message: "Entrada válida. El visitante ya está activo en el parque.",
			Visitor: &v,
		})
	}

	if err := h.Engine.Start(v.ID); err != nil {
		if errors.Is(err, tracking.ErrInvalidTransition) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "start session failed"})
	}
	started, _ := h.Engine.Get(v.ID)
	return c.JSON(http.StatusOK, checkInResp{
		Success: true,
		Message: "Entrada validada para " + v.Child.Name + ". ¡Que disfruten la visita!",
		Visitor: &started,
	})
}
