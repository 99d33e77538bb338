package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/classguru/adserve-go/internal/domain/ads"
	domainproviders "github.com/classguru/adserve-go/internal/domain/providers"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/logging"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/metrics"
	"github.com/stretchr/testify/require"
)

type fakeRevenueRepo struct {
	upserted  []*ads.RevenueBatch
	upsertErr error
}

func (r *fakeRevenueRepo) Upsert(batch *ads.RevenueBatch) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserted = append(r.upserted, batch)
	return nil
}

func (r *fakeRevenueRepo) FindByProvider(string, time.Time, time.Time) ([]*ads.RevenueBatch, error) {
	return r.upserted, nil
}

// reportingProvider is a provider with a revenue feed.
type reportingProvider struct {
	scriptedProvider
	batches  []*ads.RevenueBatch
	fetchErr error
	fetches  int
}

func (p *reportingProvider) FetchRevenue(_ context.Context, _, _ time.Time) ([]*ads.RevenueBatch, error) {
	p.fetches++
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	return p.batches, nil
}

func TestSyncOnceUpsertsBatches(t *testing.T) {
	repo := &fakeRevenueRepo{}
	reporting := &reportingProvider{
		scriptedProvider: scriptedProvider{name: "google"},
		batches: []*ads.RevenueBatch{
			{Provider: "google", Date: "2026-03-01", GrossRevenue: 12.34, Currency: "USD"},
			{Provider: "google", Date: "2026-03-02", GrossRevenue: 8.00, Currency: "USD"},
		},
	}
	plain := &scriptedProvider{name: "minigame"}

	svc := NewRevenueSyncService(
		[]domainproviders.AdProvider{reporting, plain},
		repo, 48*time.Hour, metrics.New(), logging.NewTestLogger(),
	)

	svc.SyncOnce(context.Background())

	require.Equal(t, 1, reporting.fetches)
	require.Len(t, repo.upserted, 2)
	require.Equal(t, "2026-03-01", repo.upserted[0].Date)
}

func TestSyncOnceProviderFailureIsolated(t *testing.T) {
	repo := &fakeRevenueRepo{}
	failing := &reportingProvider{
		scriptedProvider: scriptedProvider{name: "affiliate"},
		fetchErr:         errors.New("reporting API down"),
	}
	healthy := &reportingProvider{
		scriptedProvider: scriptedProvider{name: "google"},
		batches: []*ads.RevenueBatch{
			{Provider: "google", Date: "2026-03-01", GrossRevenue: 1.00},
		},
	}

	svc := NewRevenueSyncService(
		[]domainproviders.AdProvider{failing, healthy},
		repo, 24*time.Hour, metrics.New(), logging.NewTestLogger(),
	)

	svc.SyncOnce(context.Background())

	// The failing provider does not prevent the healthy one from syncing.
	require.Len(t, repo.upserted, 1)
	require.Equal(t, "google", repo.upserted[0].Provider)
}

func TestSyncOnceUpsertFailureContinues(t *testing.T) {
	repo := &fakeRevenueRepo{upsertErr: errors.New("constraint violation")}
	reporting := &reportingProvider{
		scriptedProvider: scriptedProvider{name: "google"},
		batches: []*ads.RevenueBatch{
			{Provider: "google", Date: "2026-03-01", GrossRevenue: 1.00},
		},
	}

	svc := NewRevenueSyncService(
		[]domainproviders.AdProvider{reporting},
		repo, 24*time.Hour, metrics.New(), logging.NewTestLogger(),
	)

	// Must not panic or abort; errors are logged per batch.
	svc.SyncOnce(context.Background())
	require.Empty(t, repo.upserted)
}
