package handlers

import (
	"net/http"
	"time"

	"github.com/classguru/adserve-go/internal/infrastructure/observability/logging"
	"github.com/classguru/adserve-go/internal/infrastructure/persistence/database"
	infraproviders "github.com/classguru/adserve-go/internal/infrastructure/providers"
	"github.com/gin-gonic/gin"
)

// HealthHandlers reports service and dependency health.
type HealthHandlers struct {
	db        *database.DB
	google    *infraproviders.GoogleProvider
	logger    *logging.ChanneledLogger
	startedAt time.Time
}

// NewHealthHandlers creates health handlers with injected dependencies
func NewHealthHandlers(db *database.DB, google *infraproviders.GoogleProvider, logger *logging.ChanneledLogger) *HealthHandlers {
	return &HealthHandlers{
		db:        db,
		google:    google,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// GetHealth handles GET /api/v1/ads/health - no auth required
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	dbHealthy := h.checkDatabase()
	adsHealthy := h.google.Healthy()
	isHealthy := dbHealthy && adsHealthy

	status := "healthy"
	code := http.StatusOK
	if !isHealthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.startedAt).Seconds(),
		"version":   "1.0.0",
		"services": gin.H{
			"database":  dbHealthy,
			"googleAds": adsHealthy,
		},
	})
}

func (h *HealthHandlers) checkDatabase() bool {
	var result int
	if err := h.db.QueryRow("SELECT 1").Scan(&result); err != nil {
		h.logger.System().Error("Database health check failed", "error", err.Error())
		return false
	}
	return result == 1
}
