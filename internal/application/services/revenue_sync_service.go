package services

import (
	"context"
	"time"

	"github.com/classguru/adserve-go/internal/domain/ads"
	"github.com/classguru/adserve-go/internal/domain/providers"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/logging"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/metrics"
)

// RevenueSyncService periodically pulls daily gross revenue from providers
// that expose reporting and upserts it into the revenue table. Providers
// without a revenue feed are skipped.
type RevenueSyncService struct {
	providers []providers.AdProvider
	revenue   ads.RevenueRepository
	lookback  time.Duration
	metrics   *metrics.Metrics
	logger    *logging.ChanneledLogger
}

// NewRevenueSyncService creates a new revenue sync service.
func NewRevenueSyncService(
	providerList []providers.AdProvider,
	revenue ads.RevenueRepository,
	lookback time.Duration,
	m *metrics.Metrics,
	logger *logging.ChanneledLogger,
) *RevenueSyncService {
	return &RevenueSyncService{
		providers: providerList,
		revenue:   revenue,
		lookback:  lookback,
		metrics:   m,
		logger:    logger,
	}
}

// SyncOnce pulls the trailing lookback window from every reporting provider
// and upserts the batches. One provider failing does not stop the others.
func (s *RevenueSyncService) SyncOnce(ctx context.Context) {
	end := time.Now().UTC()
	start := end.Add(-s.lookback)

	for _, provider := range s.providers {
		fetcher, ok := provider.(providers.RevenueFetcher)
		if !ok {
			continue
		}

		batches, err := fetcher.FetchRevenue(ctx, start, end)
		if err != nil {
			s.logger.Revenue().Error("Revenue fetch failed",
				"provider", provider.Name(), "error", err.Error())
			continue
		}

		for _, batch := range batches {
			if err := s.revenue.Upsert(batch); err != nil {
				s.logger.Revenue().Error("Revenue upsert failed",
					"provider", batch.Provider, "date", batch.Date, "error", err.Error())
				continue
			}
			s.metrics.RevenueBatches.Inc()
		}

		s.logger.Revenue().Info("Revenue sync completed",
			"provider", provider.Name(), "batches", len(batches))
	}
}

// Start runs SyncOnce on a fixed interval until ctx is cancelled. The first
// sync happens immediately so a fresh deployment is not an interval behind.
func (s *RevenueSyncService) Start(ctx context.Context, interval time.Duration) {
	go func() {
		s.SyncOnce(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.SyncOnce(ctx)
			}
		}
	}()
}
