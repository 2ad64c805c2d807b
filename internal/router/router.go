package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/conspiralab/conspiralab/internal/handler"
	"github.com/conspiralab/conspiralab/internal/middleware"
	"github.com/conspiralab/conspiralab/internal/model"
)

// RegisterRoutes registers the routes that carry no catalog or auth logic:
// the health check and the login entry point the authentication gate
// redirects to.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET(middleware.LoginPath, handler.LoginEntry)
}

// RegisterAuth registers the credential endpoints and the protected /v1/me
// route. The limit middleware (the Redis token bucket) guards the endpoints
// that accept credentials; pass nil to disable it.
//
// The gate relies on ResolveSession and LoadCurrentUser having run globally
// before it: the enricher has already cleared any identity reference that no
// longer resolves, so the gate's presence check is sufficient.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limit != nil {
		g.Use(limit)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	// Logout needs no gate: logging out an anonymous session is a no-op.
	e.POST("/v1/auth/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.RequireAuth(middleware.LoginPath))
	auth.GET("/me", a.Me)
}

// RegisterCatalog registers the public, unauthenticated browse endpoints,
// optionally behind the anonymous response cache.
func RegisterCatalog(e *echo.Echo, t *handler.TheoryHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/theories", t.List)
	g.GET("/theories/:id", t.Get)
	g.GET("/theories/:id/comments", t.ListComments)
}

// RegisterAdmin registers the catalog mutation endpoints behind the
// authentication gate and the admin role check, in that order.
func RegisterAdmin(e *echo.Echo, t *handler.TheoryHandler) {
	g := e.Group("/v1")
	g.Use(middleware.RequireAuth(middleware.LoginPath))
	g.Use(middleware.RequireRole(model.RoleAdmin))
	g.POST("/theories", t.Create)
	g.PUT("/theories/:id", t.Update)
	g.DELETE("/theories/:id", t.Delete)
	g.POST("/theories/:id/comments", t.AddComment)
	g.DELETE("/comments/:id", t.DeleteComment)
}
