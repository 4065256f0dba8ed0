package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parketr3s/parke-tres/internal/notify"
)

// SettingsHandler edits the speaker announcement template and voice.
type SettingsHandler struct {
	Announcer *notify.Announcer
}

func NewSettingsHandler(a *notify.Announcer) *SettingsHandler {
	return &SettingsHandler{Announcer: a}
}

func (h *SettingsHandler) GetAnnouncement(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Announcer.Settings())
}

func (h *SettingsHandler) UpdateAnnouncement(c echo.Context) error {
	var req notify.AnnouncementSettings
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Voice.Rate <= 0 || req.Voice.Rate > 4 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "voice rate must be between 0 and 4"})
	}
	h.Announcer.Update(req)
	return c.JSON(http.StatusOK, h.Announcer.Settings())
}

// PreviewAnnouncement renders the current template with sample names so
// the admin can hear it before saving.
func (h *SettingsHandler) PreviewAnnouncement(c echo.Context) error {
	text := h.Announcer.Render("Sofía", "María")
	return c.JSON(http.StatusOK, echo.Map{
		"text":  text,
		"voice": h.Announcer.Settings().Voice,
	})
}
