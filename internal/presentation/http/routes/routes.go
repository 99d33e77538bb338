// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/classguru/adserve-go/internal/application/container"
	"github.com/classguru/adserve-go/internal/presentation/http/handlers"
	"github.com/classguru/adserve-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(appContainer *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	adHandlers := handlers.NewAdHandlers(
		appContainer.AdRequestService,
		appContainer.ClickService,
		appContainer.MetricsService,
		appContainer.Logger,
	)
	configHandlers := handlers.NewConfigHandlers(appContainer.GoogleProvider(), appContainer.Logger)
	healthHandlers := handlers.NewHealthHandlers(appContainer.DB, appContainer.GoogleProvider(), appContainer.Logger)

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
		appContainer.Metrics.Registry(),
		promhttp.HandlerOpts{},
	)))

	api := r.Group("/api/v1")
	{
		adsGroup := api.Group("/ads")
		{
			adsGroup.GET("/health", healthHandlers.GetHealth)
			adsGroup.GET("/config", configHandlers.GetAdConfig)

			// Serving and click tracking accept anonymous traffic; a valid
			// bearer token only enriches the request with a user identity.
			adsGroup.POST("/request", middleware.OptionalAuthMiddleware(), adHandlers.PostAdRequest)
			adsGroup.POST("/click", middleware.OptionalAuthMiddleware(), adHandlers.PostAdClick)

			adsGroup.GET("/metrics", middleware.RequireAuthMiddleware(), adHandlers.GetAdMetrics)
		}
	}

	return r
}
