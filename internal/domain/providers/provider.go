// Package providers defines the polymorphic contract every ad source
// implements. Vendor implementations live in infrastructure; the registry
// maps configured names to implementations once at startup.
package providers

import (
	"context"
	"errors"
	"time"

	"github.com/classguru/adserve-go/internal/domain/ads"
)

// ErrNoAd is returned when a provider cannot produce an ad, for example
// because the underlying source is misconfigured or has no fill.
var ErrNoAd = errors.New("no ad available")

// AdProvider is the capability every ad source implements. RequestAd may
// fail with ErrNoAd; callers must not assume all providers succeed. OnClick
// is a best-effort notification hook whose failure never blocks recording
// of the click.
type AdProvider interface {
	Name() string
	RequestAd(ctx context.Context, req *ads.RequestContext) (*ads.AdObject, error)
	OnClick(ctx context.Context, click *ads.ClickContext) (*ads.ClickResult, error)
}

// RewardHook is an optional capability for providers that support
// reward loops on click.
type RewardHook interface {
	OnReward(ctx context.Context, click *ads.ClickContext) (*ads.RewardResult, error)
}

// RevenueFetcher is an optional capability for providers that expose
// out-of-band revenue reconciliation, consumed by the periodic sync.
type RevenueFetcher interface {
	FetchRevenue(ctx context.Context, start, end time.Time) ([]*ads.RevenueBatch, error)
}
