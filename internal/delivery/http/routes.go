package http

import (
	"github.com/gin-gonic/gin"
	"github.com/shelfprice/collector/config"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(logger))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products/:id")
		{
			products.GET("/price", handler.GetPrice)
			products.GET("/gluten-free", handler.GetGlutenFree)
			products.GET("/nutrition", handler.GetNutrition)
			products.GET("/url", handler.GetProductURL)
		}
	}

	return router
}
