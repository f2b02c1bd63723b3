package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/gatherly/ticketing/pkg/logger"
	"github.com/gatherly/ticketing/pkg/middleware"
)

// RouterConfig carries everything the router needs
type RouterConfig struct {
	Events      *EventHandler
	Bookings    *BookingHandler
	Health      *HealthHandler
	Logger      *logger.Logger
	Auth        *middleware.AuthConfig
	Idempotency *middleware.IdempotencyConfig
	Debug       bool
}

// NewRouter builds the gin engine with all routes registered. Reads are
// public; writes require a verified token. Reserve additionally runs
// behind the idempotency middleware when Redis is available.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Logger))

	router.GET("/health", cfg.Health.Live)
	router.GET("/ready", cfg.Health.Ready)

	v1 := router.Group("/api/v1")

	v1.GET("/events", cfg.Events.List)
	v1.GET("/events/:id", cfg.Events.Get)

	authed := v1.Group("")
	authed.Use(middleware.Auth(cfg.Auth))

	authed.POST("/events", cfg.Events.Create)
	authed.PATCH("/events/:id", cfg.Events.Update)
	authed.POST("/events/:id/cancel", cfg.Events.Cancel)

	reserve := authed.Group("")
	if cfg.Idempotency != nil {
		reserve.Use(middleware.Idempotency(cfg.Idempotency))
	}
	reserve.POST("/events/:id/reserve", cfg.Bookings.Reserve)

	authed.GET("/bookings", cfg.Bookings.ListMine)

	return router
}
