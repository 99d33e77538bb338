package services

import (
	"errors"
	"testing"
	"time"

	"github.com/classguru/adserve-go/internal/domain/ads"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/require"
)

// fixedCountRepo satisfies both counting repositories with canned figures.
type fixedCountRepo struct {
	count   int
	revenue float64
	err     error
}

func (r *fixedCountRepo) CountInRange(string, time.Time, time.Time) (int, float64, error) {
	return r.count, r.revenue, r.err
}

func (r *fixedCountRepo) FindByID(string) (*ads.Impression, error) { return nil, nil }

type fixedImpressionRepo struct{ fixedCountRepo }

func (r *fixedImpressionRepo) Create(*ads.Impression) error { return nil }

type fixedClickRepo struct{ fixedCountRepo }

func (r *fixedClickRepo) Create(*ads.Click) error { return nil }

func TestGetMetricsComputesRates(t *testing.T) {
	impressions := &fixedImpressionRepo{fixedCountRepo{count: 1000, revenue: 10.50}}
	clicks := &fixedClickRepo{fixedCountRepo{count: 37, revenue: 2.00}}

	svc := NewMetricsService(impressions, clicks, logging.NewTestLogger())

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	m, err := svc.GetMetrics("unit_1", start, end)
	require.NoError(t, err)
	require.Equal(t, 1000, m.Impressions)
	require.Equal(t, 37, m.Clicks)
	require.InDelta(t, 3.7, m.CTR, 0.001)       // 37/1000*100
	require.InDelta(t, 12.50, m.Revenue, 0.001) // impression + click revenue
	require.InDelta(t, 12.50, m.RPM, 0.001)     // 12.50/1000*1000
	require.Equal(t, start, m.Period.Start)
	require.Equal(t, end, m.Period.End)
}

func TestGetMetricsZeroImpressions(t *testing.T) {
	svc := NewMetricsService(&fixedImpressionRepo{}, &fixedClickRepo{}, logging.NewTestLogger())

	m, err := svc.GetMetrics("unit_1", time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	require.Zero(t, m.Impressions)
	require.Zero(t, m.CTR)
	require.Zero(t, m.RPM)
}

func TestGetMetricsRounding(t *testing.T) {
	impressions := &fixedImpressionRepo{fixedCountRepo{count: 3, revenue: 0.10}}
	clicks := &fixedClickRepo{fixedCountRepo{count: 1}}

	svc := NewMetricsService(impressions, clicks, logging.NewTestLogger())

	m, err := svc.GetMetrics("unit_1", time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	require.InDelta(t, 33.33, m.CTR, 0.001) // 1/3*100 rounded to 2dp
	require.InDelta(t, 33.33, m.RPM, 0.001) // 0.10/3*1000 rounded to 2dp
}

func TestGetMetricsPropagatesErrors(t *testing.T) {
	impressions := &fixedImpressionRepo{fixedCountRepo{err: errors.New("query failed")}}
	svc := NewMetricsService(impressions, &fixedClickRepo{}, logging.NewTestLogger())

	_, err := svc.GetMetrics("unit_1", time.Now().Add(-time.Hour), time.Now())
	require.Error(t, err)
}
