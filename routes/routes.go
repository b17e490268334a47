// Package routes cung cấp tất cả routing functions cho Address Locator Service
//
// Cấu trúc:
// - api.go: API routes (/api/*, /v1/*), health, metrics
// - web.go: Web routes (/, /docs)
// - routes.go: middleware và SetupAllRoutes
package routes

import (
	"net/http"
	"time"

	"github.com/address-locator/app/controllers"
	"github.com/address-locator/helpers/utils"
	"github.com/address-locator/internal/metrics"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupAllRoutes thiết lập middleware và tất cả routes
func SetupAllRoutes(router *gin.Engine, addressController *controllers.AddressController, adminController *controllers.AdminController, m *metrics.Metrics, logger *zap.Logger) {
	setupMiddleware(router, logger)

	SetupWebRoutes(router)
	SetupHealthRoutes(router, addressController)
	SetupAPIRoutes(router, addressController, adminController)
	SetupMetricsRoutes(router, m)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}

// setupMiddleware thiết lập middleware cho router
func setupMiddleware(router *gin.Engine, logger *zap.Logger) {
	router.Use(utils.RequestID())
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
}
