package routes

import (
	"net/http"

	"github.com/address-locator/helpers/utils"
	"github.com/gin-gonic/gin"
)

// SetupWebRoutes thiết lập web routes
func SetupWebRoutes(router *gin.Engine) {
	web := router.Group("/")
	{
		web.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message": "Address Locator Service",
				"version": utils.Version,
				"docs":    "/docs",
			})
		})

		web.GET("/docs", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"api": "Address Locator API v1",
				"endpoints": map[string]string{
					"identify":    "POST /api/identify-location",
					"resolve":     "POST /v1/addresses/resolve",
					"batch":       "POST /v1/addresses/resolve/batch",
					"stats":       "GET /v1/admin/stats",
					"cache_clear": "POST /v1/admin/cache/clear",
					"search_sync": "POST /v1/admin/search/sync",
					"search":      "GET /v1/admin/search?q=",
					"health":      "GET /health",
					"metrics":     "GET /metrics",
				},
			})
		})
	}
}
