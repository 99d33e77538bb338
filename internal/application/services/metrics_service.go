package services

import (
	"time"

	"github.com/classguru/adserve-go/internal/domain/ads"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/logging"
	"github.com/shopspring/decimal"
)

// MetricsService aggregates per-ad-unit performance figures.
type MetricsService struct {
	impressions ads.ImpressionRepository
	clicks      ads.ClickRepository
	logger      *logging.ChanneledLogger
}

// NewMetricsService creates a new metrics service.
func NewMetricsService(impressions ads.ImpressionRepository, clicks ads.ClickRepository, logger *logging.ChanneledLogger) *MetricsService {
	return &MetricsService{impressions: impressions, clicks: clicks, logger: logger}
}

// GetMetrics computes impressions, clicks, CTR, revenue, and RPM for an ad
// unit over [start, end). CTR is a percentage; RPM is revenue per thousand
// impressions. All derived figures round to two decimal places.
func (s *MetricsService) GetMetrics(adUnitID string, start, end time.Time) (*ads.Metrics, error) {
	impressionCount, impressionRevenue, err := s.impressions.CountInRange(adUnitID, start, end)
	if err != nil {
		s.logger.Ads().Error("Failed to count impressions", "adUnitId", adUnitID, "error", err.Error())
		return nil, err
	}

	clickCount, clickRevenue, err := s.clicks.CountInRange(adUnitID, start, end)
	if err != nil {
		s.logger.Ads().Error("Failed to count clicks", "adUnitId", adUnitID, "error", err.Error())
		return nil, err
	}

	revenue := decimal.NewFromFloat(impressionRevenue).Add(decimal.NewFromFloat(clickRevenue))

	var ctr, rpm decimal.Decimal
	if impressionCount > 0 {
		impressions := decimal.NewFromInt(int64(impressionCount))
		ctr = decimal.NewFromInt(int64(clickCount)).Div(impressions).Mul(decimal.NewFromInt(100))
		rpm = revenue.Div(impressions).Mul(decimal.NewFromInt(1000))
	}

	return &ads.Metrics{
		AdUnitID:    adUnitID,
		Impressions: impressionCount,
		Clicks:      clickCount,
		CTR:         ctr.Round(2).InexactFloat64(),
		Revenue:     revenue.Round(2).InexactFloat64(),
		RPM:         rpm.Round(2).InexactFloat64(),
		Period:      ads.MetricsPeriod{Start: start, End: end},
	}, nil
}
