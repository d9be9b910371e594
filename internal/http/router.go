package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if cfg.DemoMiddleware != nil && cfg.DemoMiddleware.IsEnabled() {
		router.Use(cfg.DemoMiddleware.Handler())
	}

	health := NewHealthController(cfg.Database, cfg.Gateway, cfg.Collection, cfg.Version)
	if cfg.Refresh != nil {
		health.SetRefreshStatus(cfg.Refresh)
	}
	books := NewBooksController(cfg.Collection, cfg.WaitTimeout, logger)
	views := NewViewsController(cfg.Collection)
	status := NewStatusController(cfg.Collection)

	router.GET("/health", health.Status)

	api := router.Group("/api")
	{
		api.GET("/books", books.List)
		api.POST("/books", books.Create)
		api.POST("/books/reload", books.Reload)
		api.GET("/books/filter", views.Filter)
		api.GET("/books/:id", books.Get)
		api.PUT("/books/:id", books.Update)
		api.DELETE("/books/:id", books.Delete)

		api.GET("/categories", views.Categories)
		api.GET("/stats", views.Stats)

		api.GET("/status", status.Get)
		api.DELETE("/status", status.Dismiss)
	}

	if cfg.AuditLog != nil {
		auditController := NewAuditController(cfg.AuditLog, logger)
		api.GET("/audit", auditController.GetAuditEvents)
		api.GET("/books/:id/history", auditController.GetBookHistory)
	}

	return router
}
