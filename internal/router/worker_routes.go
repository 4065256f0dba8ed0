package router

import (
	"github.com/labstack/echo/v4"

	"github.com/parketr3s/parke-tres/internal/handler"
	"github.com/parketr3s/parke-tres/internal/middleware"
	"github.com/parketr3s/parke-tres/internal/model"
)

// RegisterWorker registers the endpoints used day to day at the park:
// selling entries, scanning QR codes and driving live sessions. Both
// workers and admins may call them.
func RegisterWorker(e *echo.Echo, s *handler.SaleHandler, ci *handler.CheckInHandler, t *handler.TrackingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleWorker),
	)

	// ---- Sales ----
	g.POST("/sales", s.Create)
	g.GET("/sales/:id", s.Get)

	// ---- Check-in ----
	g.POST("/check-in", ci.Scan)

	// ---- Live sessions ----
	g.GET("/visitors", t.List)
	g.GET("/visitors/board", t.Board)
	g.GET("/visitors/:id", t.Get)
	g.POST("/visitors/:id/start", t.Start)
	g.POST("/visitors/:id/pause", t.Pause)
	g.POST("/visitors/:id/resume", t.Resume)
	g.POST("/visitors/:id/end", t.End)
	g.POST("/visitors/:id/time", t.AddTime)
}
