package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/journeys/:address", handler.GetJourney)

		v1.GET("/dashboard/summary", handler.GetDashboardSummary)
		v1.POST("/dashboard/categories", handler.DistributeCategories)
	}
}
