package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/pictures-london/internal/handler"    // handlers for the public and operator endpoints
	"github.com/iliyamo/pictures-london/internal/middleware" // JWT authentication and role enforcement
	"github.com/iliyamo/pictures-london/internal/utils"
)

// RegisterRoutes registers the probes.  They bypass caching and rate limits
// so orchestrators can always reach them.
func RegisterRoutes(e *echo.Echo, ready *handler.ReadyHandler) {
	e.GET("/healthz", handler.Health)
	if ready != nil {
		e.GET("/readyz", ready.Ready)
	}
}

// RegisterPublic registers unauthenticated listing endpoints.  The given
// middleware (rate limiter, response cache) wraps every route in the group.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/cinemas", p.GetPublicCinemas)
	g.GET("/screenings", p.SearchScreenings)
}

// RegisterAdmin registers the operator endpoints under /v1/admin.  Every
// route requires a valid token carrying the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, t *handler.TitleHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleAdmin),
	)
	g.POST("/imports/full", a.TriggerFull)
	g.POST("/imports/changes", a.TriggerChanges)
	g.GET("/imports", a.ListRuns)
	g.GET("/imports/:id", a.GetRun)
	g.GET("/cinemas/health", a.CinemaHealth)
	g.POST("/titles/extract", t.Extract)
}
