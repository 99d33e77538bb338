// Package providers contains the vendor ad-source implementations, the
// provider registry, and the per-request provider selector.
package providers

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/classguru/adserve-go/internal/domain/ads"
	"github.com/classguru/adserve-go/internal/domain/providers"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/logging"
	"github.com/oklog/ulid/v2"
)

// Mock scenarios selectable via MOCK_ADS_SCENARIO.
const (
	ScenarioSuccess = "success"
	ScenarioEmpty   = "empty"
	ScenarioError   = "error"
)

// mockCreative is one canned ad used by the mock AdSense manager.
type mockCreative struct {
	Title       string
	Description string
	DisplayURL  string
	ClickURL    string
	ImageURL    string
}

var mockCreatives = []mockCreative{
	{
		Title:       "Learn Programming Online",
		Description: "Master coding with our interactive courses. Start learning today!",
		DisplayURL:  "www.example-edu.com",
		ClickURL:    "https://example.com/programming",
		ImageURL:    "https://via.placeholder.com/300x250/4A90E2/ffffff?text=Ad+1",
	},
	{
		Title:       "Cloud Hosting Solutions",
		Description: "Reliable and scalable cloud infrastructure for your business.",
		DisplayURL:  "www.example-cloud.com",
		ClickURL:    "https://example.com/cloud",
		ImageURL:    "https://via.placeholder.com/300x250/50E3C2/ffffff?text=Ad+2",
	},
	{
		Title:       "Business Analytics Tools",
		Description: "Transform your data into insights. Free trial available.",
		DisplayURL:  "www.example-analytics.com",
		ClickURL:    "https://example.com/analytics",
		ImageURL:    "https://via.placeholder.com/300x250/F5A623/ffffff?text=Ad+3",
	},
}

// MockAdSenseManager mimics the behavior of real AdSense without requiring
// API keys. The scenario controls whether requests succeed, come back
// empty, or fail.
type MockAdSenseManager struct {
	scenario string
	logger   *logging.ChanneledLogger
}

// NewMockAdSenseManager creates a mock manager for the given scenario.
func NewMockAdSenseManager(scenario string, logger *logging.ChanneledLogger) *MockAdSenseManager {
	logger.Providers().Info("Mock AdSense initialized", "scenario", scenario)
	return &MockAdSenseManager{scenario: scenario, logger: logger}
}

// RequestAd produces a mock ad according to the configured scenario.
func (m *MockAdSenseManager) RequestAd(_ context.Context, req *ads.RequestContext) (*ads.AdObject, error) {
	switch m.scenario {
	case ScenarioEmpty:
		return nil, providers.ErrNoAd
	case ScenarioError:
		return nil, fmt.Errorf("mock error: failed to fetch ad")
	default:
		creative := mockCreatives[rand.Intn(len(mockCreatives))]
		return &ads.AdObject{
			ID:           "mock_ad_" + ulid.Make().String(),
			Type:         req.Format,
			Content:      renderMockAdHTML(creative),
			ClickURL:     creative.ClickURL,
			ImpressionID: "mock_imp_" + ulid.Make().String(),
		}, nil
	}
}

// Config returns the mock AdSense client configuration.
func (m *MockAdSenseManager) Config() *AdSenseConfig {
	return &AdSenseConfig{
		ClientID:  "ca-pub-0000000000000000",
		SlotID:    "0000000000",
		ScriptURL: "mock://google-ads-script",
	}
}

// FetchRevenue reports one canned batch per whole day in [start, end),
// exercising the revenue reconciliation path without a live API.
func (m *MockAdSenseManager) FetchRevenue(_ context.Context, start, end time.Time) ([]*ads.RevenueBatch, error) {
	if m.scenario == ScenarioError {
		return nil, fmt.Errorf("mock error: revenue API unavailable")
	}
	var batches []*ads.RevenueBatch
	for day := start.Truncate(24 * time.Hour); day.Before(end); day = day.Add(24 * time.Hour) {
		batches = append(batches, &ads.RevenueBatch{
			Provider:     "google",
			Date:         day.Format("2006-01-02"),
			GrossRevenue: 12.34,
			Currency:     "USD",
			SourceRef:    "mock-adsense",
		})
	}
	return batches, nil
}

// Healthy reports mock subsystem health.
func (m *MockAdSenseManager) Healthy() bool {
	return true
}

func renderMockAdHTML(creative mockCreative) string {
	return fmt.Sprintf(`<div class="mock-ad" style="border: 2px dashed #ccc; padding: 20px;">
  <div style="font-size: 10px;">MOCK AD</div>
  <img src="%s" alt="%s" style="max-width: 100%%;">
  <h3>%s</h3>
  <p>%s</p>
  <span style="font-style: italic;">%s</span>
</div>`, creative.ImageURL, creative.Title, creative.Title, creative.Description, creative.DisplayURL)
}
