package providers

import (
	"context"
	"net/url"

	"github.com/classguru/adserve-go/internal/domain/ads"
	"github.com/oklog/ulid/v2"
)

// AffiliateProvider serves simple redirect ads pointing at a configured
// affiliate network offer URL.
type AffiliateProvider struct {
	apiKey  string
	baseURL string
}

// NewAffiliateProvider creates the affiliate provider.
func NewAffiliateProvider(apiKey, baseURL string) *AffiliateProvider {
	if baseURL == "" {
		baseURL = "https://example.com/offer"
	}
	return &AffiliateProvider{apiKey: apiKey, baseURL: baseURL}
}

func (p *AffiliateProvider) Name() string { return "affiliate" }

// RequestAd builds a redirect ad carrying affiliate attribution parameters.
func (p *AffiliateProvider) RequestAd(_ context.Context, req *ads.RequestContext) (*ads.AdObject, error) {
	id := ulid.Make().String()
	clickURL := p.baseURL +
		"?affid=" + url.QueryEscape(p.apiKey) +
		"&sid=" + url.QueryEscape(req.SessionID) +
		"&pid=" + url.QueryEscape(id)

	return &ads.AdObject{
		ID:           id,
		Type:         "redirect",
		Content:      "Affiliate Offer",
		ClickURL:     clickURL,
		ImpressionID: ulid.Make().String(),
		Provider:     "affiliate",
	}, nil
}

// OnClick acknowledges the click; conversion tracking happens on the
// affiliate network's side via the attribution parameters.
func (p *AffiliateProvider) OnClick(_ context.Context, _ *ads.ClickContext) (*ads.ClickResult, error) {
	return &ads.ClickResult{Success: true}, nil
}
