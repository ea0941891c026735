// Package router wires the HTTP surface: which handler serves which
// path, and which middleware guards it.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/eventify/eventify/internal/config"
	"github.com/eventify/eventify/internal/handler"
	"github.com/eventify/eventify/internal/middleware"
	"github.com/eventify/eventify/internal/model"
)

// RegisterPublic registers the routes that need no session at all.
func RegisterPublic(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the /v1/auth endpoints and the authenticated
// /v1/me route.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleCustomer, model.RoleAdmin))
	auth.GET("/me", a.Me)
}

// RegisterCustomer registers the browsing and booking endpoints. Admins
// can call them too so staff clients reuse the same surface. The Redis
// response cache covers the read-only catalog and board routes; rdb may
// be nil, in which case caching and rate limiting are no-ops.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string, rdb *redis.Client) {
	g := e.Group("/v1/events")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleCustomer, model.RoleAdmin))
	g.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cached := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	g.GET("", h.ListEvents, cached)
	g.GET("/:id", h.GetEvent, cached)
	g.GET("/:id/board", h.GetBoard)
	g.GET("/:id/quota", h.GetQuota)
	g.POST("/:id/reservations", h.Reserve)
	g.DELETE("/:id/reservations", h.CancelSeat)
	g.GET("/:id/ticket", h.GetTicket)
}

// RegisterAdmin registers the staff-only catalog and roster endpoints.
func RegisterAdmin(e *echo.Echo, h *handler.AdminEventHandler, jwtSecret string) {
	g := e.Group("/v1/admin/events")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.GET("", h.ListEvents)
	g.POST("", h.CreateEvent)
	g.PATCH("/:id", h.UpdateEvent)
	g.DELETE("/:id", h.DeleteEvent)
	g.GET("/:id/roster", h.GetRoster)
	g.GET("/:id/roster.csv", h.ExportRosterCSV)
	g.DELETE("/:id/reservations", h.AdminCancelSeat)
}
