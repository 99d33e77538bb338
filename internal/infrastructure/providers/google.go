package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/classguru/adserve-go/internal/domain/ads"
	"github.com/classguru/adserve-go/internal/domain/providers"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/logging"
	"github.com/oklog/ulid/v2"
)

// AdSenseConfig is the client-side rendering configuration for AdSense.
type AdSenseConfig struct {
	ClientID  string `json:"clientId"`
	SlotID    string `json:"slotId"`
	ScriptURL string `json:"scriptUrl"`
}

// GoogleProvider serves AdSense ads. With real AdSense the server returns
// slot configuration and the creative renders client-side; in mock mode all
// requests are delegated to the mock manager.
type GoogleProvider struct {
	clientID string
	slotID   string
	mock     *MockAdSenseManager
	logger   *logging.ChanneledLogger
}

// NewGoogleProvider creates the google provider. mock may be nil when mock
// mode is disabled.
func NewGoogleProvider(clientID, slotID string, mock *MockAdSenseManager, logger *logging.ChanneledLogger) *GoogleProvider {
	return &GoogleProvider{
		clientID: clientID,
		slotID:   slotID,
		mock:     mock,
		logger:   logger,
	}
}

func (p *GoogleProvider) Name() string { return "google" }

// Config returns the AdSense rendering configuration, or nil when AdSense
// is not configured and mock mode is off.
func (p *GoogleProvider) Config() *AdSenseConfig {
	if p.mock != nil {
		return p.mock.Config()
	}
	if p.clientID == "" {
		return nil
	}
	return &AdSenseConfig{
		ClientID:  p.clientID,
		SlotID:    p.slotID,
		ScriptURL: "https://pagead2.googlesyndication.com/pagead/js/adsbygoogle.js?client=" + p.clientID,
	}
}

// RequestAd produces an AdSense slot ad, or a mock ad in mock mode.
func (p *GoogleProvider) RequestAd(ctx context.Context, req *ads.RequestContext) (*ads.AdObject, error) {
	if p.mock != nil {
		ad, err := p.mock.RequestAd(ctx, req)
		if err != nil {
			return nil, err
		}
		ad.Provider = "google"
		return ad, nil
	}

	config := p.Config()
	if config == nil {
		p.logger.Providers().Warn("AdSense not configured, no ad produced")
		return nil, providers.ErrNoAd
	}

	return &ads.AdObject{
		ID:           config.SlotID,
		Type:         req.Format,
		Content:      renderAdSenseHTML(config),
		ImpressionID: "imp_" + ulid.Make().String(),
		Provider:     "google",
	}, nil
}

// OnClick acknowledges the click. AdSense tracks clicks on its own side, so
// there is nothing to forward.
func (p *GoogleProvider) OnClick(_ context.Context, _ *ads.ClickContext) (*ads.ClickResult, error) {
	return &ads.ClickResult{Success: true}, nil
}

// FetchRevenue reconciles daily gross revenue. Only available in mock mode;
// the real AdSense reporting API is not integrated.
func (p *GoogleProvider) FetchRevenue(ctx context.Context, start, end time.Time) ([]*ads.RevenueBatch, error) {
	if p.mock == nil {
		return nil, nil
	}
	return p.mock.FetchRevenue(ctx, start, end)
}

// Healthy reports whether the ads subsystem can serve.
func (p *GoogleProvider) Healthy() bool {
	if p.mock != nil {
		return p.mock.Healthy()
	}
	return p.clientID != ""
}

func renderAdSenseHTML(config *AdSenseConfig) string {
	return fmt.Sprintf(`<ins class="adsbygoogle" style="display:block"
     data-ad-client="%s" data-ad-slot="%s"></ins>
<script async src="%s" crossorigin="anonymous"></script>
<script>(adsbygoogle = window.adsbygoogle || []).push({});</script>`,
		config.ClientID, config.SlotID, config.ScriptURL)
}
