package routes

import (
	"github.com/address-locator/app/controllers"
	"github.com/address-locator/internal/metrics"
	"github.com/gin-gonic/gin"
)

// SetupAPIRoutes thiết lập tất cả API routes
func SetupAPIRoutes(router *gin.Engine, addressController *controllers.AddressController, adminController *controllers.AdminController) {
	// Endpoint cho giao diện web
	router.POST("/api/identify-location", addressController.IdentifyLocation)

	// API v1 group
	v1 := router.Group("/v1")
	{
		addresses := v1.Group("/addresses")
		{
			addresses.POST("/resolve", addressController.Resolve)
			addresses.POST("/resolve/batch", addressController.BatchResolve)
		}

		admin := v1.Group("/admin")
		{
			admin.GET("/stats", adminController.GetStats)
			admin.POST("/cache/clear", adminController.ClearCache)
			admin.POST("/search/sync", adminController.SyncSearch)
			admin.GET("/search", adminController.SearchRecords)
		}

		v1.GET("/health", addressController.HealthCheck)
	}
}

// SetupHealthRoutes thiết lập health check routes
func SetupHealthRoutes(router *gin.Engine, addressController *controllers.AddressController) {
	router.GET("/health", addressController.HealthCheck)
	router.GET("/ready", addressController.HealthCheck)
	router.GET("/live", addressController.HealthCheck)
}

// SetupMetricsRoutes thiết lập metrics routes (cho Prometheus)
func SetupMetricsRoutes(router *gin.Engine, m *metrics.Metrics) {
	if m == nil {
		return
	}
	router.GET("/metrics", gin.WrapH(m.Handler()))
}
