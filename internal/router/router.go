package router // package router defines how HTTP routes are registered for the API

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/lehoang/visit-registration/internal/handler"
    "github.com/lehoang/visit-registration/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Load balancers and monitoring probes hit this endpoint to verify
    // that the service is up.
    e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the visitor-facing endpoints.  These routes do not
// apply JWT middleware: submitting a registration and reading the form
// configuration are open to guests.  The submission route is rate limited and
// the configuration route is served through the response cache when Redis is
// available.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, limit echo.MiddlewareFunc, cache *middleware.ConfigCache) {
    e.GET("/v1/form-config", p.GetFormConfig, cache.Middleware())
    e.POST("/v1/registrations", p.Submit, limit)
    e.GET("/v1/registrations/count", p.Count)
}

// RegisterEvents mounts the SockJS endpoint that streams registration and
// configuration events to connected dashboards.
func RegisterEvents(e *echo.Echo, h http.Handler) {
    e.Any("/v1/events", echo.WrapHandler(h))
    e.Any("/v1/events/*", echo.WrapHandler(h))
}

// RegisterAuth registers authentication routes and the authenticated /v1/me
// endpoint.  Unauthenticated operations live under /v1/auth.  Register is
// deliberately outside the JWT group: while no account exists the endpoint is
// open so the deployment can bootstrap its first admin, and the handler
// enforces the admin token itself afterwards.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.GET("/me", a.Me)
}

// RegisterAdmin registers the protected management endpoints under
// /v1/admin.  Every route requires a valid access token carrying the ADMIN
// role.
func RegisterAdmin(e *echo.Echo, r *handler.AdminHandler, c *handler.AdminConfigHandler, jwtSecret string) {
    g := e.Group("/v1/admin")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole("ADMIN"))

    // Registration lifecycle.
    g.GET("/registrations", r.List)
    g.PUT("/registrations/:id/approve", r.Approve)
    g.PUT("/registrations/:id/reject", r.Reject)
    g.DELETE("/registrations/:id", r.Delete)
    g.POST("/registrations/batch", r.BatchUpdate)
    g.POST("/registrations/batch-delete", r.BatchDelete)

    // Form configuration.
    g.GET("/form-config", c.GetFormConfig)
    g.PUT("/form-config", c.SaveFormConfig)
    g.PUT("/form-config/closed", c.SetFormClosed)

    // Per-admin SMTP credentials.
    g.GET("/email-config", c.GetEmailConfig)
    g.PUT("/email-config", c.SaveEmailConfig)
}
