package router

import (
	"github.com/labstack/echo/v4"

	"github.com/parketr3s/parke-tres/internal/handler"
	"github.com/parketr3s/parke-tres/internal/middleware"
	"github.com/parketr3s/parke-tres/internal/model"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1: staff
// management, the package catalog, announcement settings and reports.
func RegisterAdmin(e *echo.Echo, u *handler.AdminUserHandler, p *handler.PackageHandler, s *handler.SettingsHandler, r *handler.ReportHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Staff ----
	g.POST("/users", u.Create)
	g.GET("/users", u.List)
	g.PATCH("/users/:id", u.Update)

	// ---- Packages ----
	g.GET("/admin/packages", p.ListAll)
	g.POST("/admin/packages", p.Create)
	g.PUT("/admin/packages/:id", p.Update)
	g.DELETE("/admin/packages/:id", p.Delete)

	// ---- Announcement settings ----
	g.GET("/settings/announcement", s.GetAnnouncement)
	g.PUT("/settings/announcement", s.UpdateAnnouncement)
	g.POST("/settings/announcement/preview", s.PreviewAnnouncement)

	// ---- Reports ----
	g.GET("/reports/summary", r.Summary)
	g.GET("/reports/sales.csv", r.ExportCSV)
}
