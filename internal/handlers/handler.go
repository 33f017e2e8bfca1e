package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"purpleair_monitor/internal/config"
	"purpleair_monitor/internal/logger"
	"purpleair_monitor/internal/service"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	report   config.ReportMode
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies. report selects
// which reading value responses surface as the headline number.
func NewHandler(services *service.Service, report config.ReportMode, log *logger.Logger) *Handler {
	return &Handler{services: services, report: report, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// WebSocket push of reading snapshots, same port.
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIDMiddleware)
	{
		air := api.Group("/air")
		{
			air.GET("/reading", h.getReading)
			air.GET("/status", h.getStatus)
			air.POST("/refresh", h.postRefresh)
		}
		logs := api.Group("/logs")
		{
			logs.GET("/", h.getLogs)
		}
	}
}
