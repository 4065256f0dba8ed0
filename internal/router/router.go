package router // router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parketr3s/parke-tres/internal/handler"
	"github.com/parketr3s/parke-tres/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication:
// the health check, the Prometheus metrics endpoint and the public
// package catalog shown on the sale screen. cache, when non-nil, is the
// response cache middleware; it is mounted on the catalog route only,
// never in front of anything behind JWTAuth, so a cache hit can never
// bypass authentication.
func RegisterRoutes(e *echo.Echo, pkgs *handler.PackageHandler, metrics http.Handler, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(metrics))

	if cache != nil {
		e.GET("/v1/packages", pkgs.ListActive, cache)
		return
	}
	e.GET("/v1/packages", pkgs.ListActive)
}

// RegisterAuth registers the staff authentication endpoints. Login,
// refresh and logout are unauthenticated; /v1/me requires a token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}
