// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/classguru/adserve-go/internal/application/services"
	"github.com/classguru/adserve-go/internal/domain/ads"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/logging"
	infraproviders "github.com/classguru/adserve-go/internal/infrastructure/providers"
	"github.com/classguru/adserve-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// AdHandlers contains all ad-serving HTTP handlers
type AdHandlers struct {
	adRequestService *services.AdRequestService
	clickService     *services.ClickService
	metricsService   *services.MetricsService
	logger           *logging.ChanneledLogger
}

// NewAdHandlers creates ad handlers with injected dependencies
func NewAdHandlers(
	adRequestService *services.AdRequestService,
	clickService *services.ClickService,
	metricsService *services.MetricsService,
	logger *logging.ChanneledLogger,
) *AdHandlers {
	return &AdHandlers{
		adRequestService: adRequestService,
		clickService:     clickService,
		metricsService:   metricsService,
		logger:           logger,
	}
}

// AdRequestBody is the payload for POST /api/v1/ads/request
type AdRequestBody struct {
	Page       string `json:"page"`
	Format     string `json:"format"`
	SessionID  string `json:"sessionId"`
	DeviceType string `json:"deviceType,omitempty"`
}

// ClickTrackingBody is the payload for POST /api/v1/ads/click
type ClickTrackingBody struct {
	ImpressionID     string `json:"impressionId"`
	ClickURL         string `json:"clickUrl"`
	ViewabilityToken string `json:"viewabilityToken,omitempty"`
}

// PostAdRequest handles POST /api/v1/ads/request - serves one ad (optional auth)
func (h *AdHandlers) PostAdRequest(c *gin.Context) {
	var body AdRequestBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Page == "" || body.Format == "" || body.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Missing required fields: page, format, sessionId",
		})
		return
	}

	deviceType := ads.DeviceType(body.DeviceType)
	switch deviceType {
	case ads.DeviceDesktop, ads.DeviceMobile, ads.DeviceTablet:
	default:
		deviceType = ads.DeviceDesktop
	}

	req := &ads.RequestContext{
		UserID:     middleware.GetUserID(c),
		SessionID:  body.SessionID,
		Page:       body.Page,
		Format:     body.Format,
		DeviceType: deviceType,
		UserAgent:  c.Request.UserAgent(),
	}

	response := h.adRequestService.RequestAd(c.Request.Context(), req, middleware.GetBearerToken(c))
	if !response.Success {
		c.JSON(http.StatusInternalServerError, response)
		return
	}
	c.JSON(http.StatusOK, response)
}

// PostAdClick handles POST /api/v1/ads/click - records a click (optional auth)
func (h *AdHandlers) PostAdClick(c *gin.Context) {
	var body ClickTrackingBody
	if err := c.ShouldBindJSON(&body); err != nil || body.ImpressionID == "" || body.ClickURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Missing required fields: impressionId, clickUrl",
		})
		return
	}

	response := h.clickService.TrackClick(c.Request.Context(), &services.ClickRequest{
		ImpressionID:     body.ImpressionID,
		ClickURL:         body.ClickURL,
		ViewabilityToken: body.ViewabilityToken,
		UserID:           middleware.GetUserID(c),
		Bearer:           middleware.GetBearerToken(c),
	})

	if !response.Success && response.Error == "Internal server error" {
		c.JSON(http.StatusInternalServerError, response)
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetAdMetrics handles GET /api/v1/ads/metrics - per-ad-unit metrics (requires auth)
func (h *AdHandlers) GetAdMetrics(c *gin.Context) {
	adUnitID := c.Query("adUnitId")
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")

	if adUnitID == "" || startDate == "" || endDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Missing required query parameters: adUnitId, startDate, endDate",
		})
		return
	}

	start, errStart := parseDate(startDate)
	end, errEnd := parseDate(endDate)
	if errStart != nil || errEnd != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid date format",
		})
		return
	}

	metrics, err := h.metricsService.GetMetrics(adUnitID, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve metrics",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"metrics": metrics,
	})
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// ConfigHandlers serves the client-side rendering configuration.
type ConfigHandlers struct {
	google *infraproviders.GoogleProvider
	logger *logging.ChanneledLogger
}

// NewConfigHandlers creates config handlers with injected dependencies
func NewConfigHandlers(google *infraproviders.GoogleProvider, logger *logging.ChanneledLogger) *ConfigHandlers {
	return &ConfigHandlers{google: google, logger: logger}
}

// GetAdConfig handles GET /api/v1/ads/config - AdSense rendering config
func (h *ConfigHandlers) GetAdConfig(c *gin.Context) {
	adConfig := h.google.Config()
	if adConfig == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "AdSense not configured",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"config":  adConfig,
	})
}
