package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/classguru/adserve-go/internal/domain/ads"
	"github.com/classguru/adserve-go/internal/domain/providers"
	"github.com/classguru/adserve-go/internal/infrastructure/abuse"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/logging"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/metrics"
	"github.com/classguru/adserve-go/pkg/config"
	"github.com/stretchr/testify/require"
)

type fakeProviderSource struct {
	providers map[string]providers.AdProvider
}

func (s *fakeProviderSource) Get(name string) (providers.AdProvider, bool) {
	p, ok := s.providers[name]
	return p, ok
}

type hookedProvider struct {
	scriptedProvider
	clickErr    error
	clickCalls  int
	rewardCalls int
}

func (p *hookedProvider) OnClick(_ context.Context, _ *ads.ClickContext) (*ads.ClickResult, error) {
	p.clickCalls++
	if p.clickErr != nil {
		return nil, p.clickErr
	}
	return &ads.ClickResult{Success: true}, nil
}

func (p *hookedProvider) OnReward(_ context.Context, _ *ads.ClickContext) (*ads.RewardResult, error) {
	p.rewardCalls++
	return &ads.RewardResult{Success: true, CreditsAwarded: 1}, nil
}

type clickFixture struct {
	svc         *ClickService
	impressions *fakeImpressionRepo
	clicks      *fakeClickRepo
	guard       *abuse.Guard
	codec       *abuse.ViewabilityCodec
	provider    *hookedProvider
	gate        *fakeCreditsGateway
}

func newClickFixture(t *testing.T) *clickFixture {
	t.Helper()

	impressions := newFakeImpressionRepo()
	userID := "user_1"
	impressions.stored["imp_1"] = &ads.Impression{
		ID:        "imp_1",
		AdUnitID:  "unit_1",
		Provider:  "google",
		UserID:    &userID,
		SessionID: "sess_1",
	}

	clicks := &fakeClickRepo{}
	guard := abuse.NewGuard(5 * time.Second)
	codec := abuse.NewViewabilityCodec("test-secret", 0)
	provider := &hookedProvider{scriptedProvider: scriptedProvider{name: "google"}}
	gate := &fakeCreditsGateway{}

	svc := NewClickService(
		impressions, clicks, guard, codec,
		&fakeProviderSource{providers: map[string]providers.AdProvider{"google": provider}},
		gate, metrics.New(), logging.NewTestLogger(),
	)

	return &clickFixture{
		svc: svc, impressions: impressions, clicks: clicks,
		guard: guard, codec: codec, provider: provider, gate: gate,
	}
}

func withFeatureFlags(t *testing.T, flags ...string) {
	t.Helper()
	previous := config.FeatureFlags
	config.FeatureFlags = flags
	t.Cleanup(func() { config.FeatureFlags = previous })
}

func TestTrackClickRecords(t *testing.T) {
	withFeatureFlags(t)
	f := newClickFixture(t)

	res := f.svc.TrackClick(context.Background(), &ClickRequest{
		ImpressionID: "imp_1",
		ClickURL:     "https://example.com/offer",
		UserID:       "user_1",
	})

	require.True(t, res.Success)
	require.Len(t, f.clicks.created, 1)

	click := f.clicks.created[0]
	require.NotEmpty(t, click.ID)
	require.Equal(t, "imp_1", click.ImpressionID)
	require.Equal(t, "unit_1", click.AdUnitID)
	require.Equal(t, "google", click.Provider)
	require.Equal(t, "sess_1", click.SessionID)
	require.Equal(t, 1, f.provider.clickCalls)
	require.Equal(t, 1, f.provider.rewardCalls)
}

func TestTrackClickImpressionNotFound(t *testing.T) {
	withFeatureFlags(t)
	f := newClickFixture(t)

	res := f.svc.TrackClick(context.Background(), &ClickRequest{
		ImpressionID: "imp_missing",
		ClickURL:     "https://example.com/offer",
	})

	require.False(t, res.Success)
	require.Equal(t, "Impression not found", res.Error)
	require.Empty(t, f.clicks.created)
}

func TestTrackClickViewabilityRejected(t *testing.T) {
	withFeatureFlags(t, config.FlagViewability)
	f := newClickFixture(t)

	for _, token := range []string{"", "garbage", "a|b|c"} {
		res := f.svc.TrackClick(context.Background(), &ClickRequest{
			ImpressionID:     "imp_1",
			ClickURL:         "https://example.com/offer",
			ViewabilityToken: token,
		})
		require.False(t, res.Success)
		require.Equal(t, "Viewability not satisfied", res.Error)
	}
	require.Empty(t, f.clicks.created)
}

func TestTrackClickViewabilityAccepted(t *testing.T) {
	withFeatureFlags(t, config.FlagViewability)
	f := newClickFixture(t)

	res := f.svc.TrackClick(context.Background(), &ClickRequest{
		ImpressionID:     "imp_1",
		ClickURL:         "https://example.com/offer",
		ViewabilityToken: f.codec.Issue("imp_1"),
	})

	require.True(t, res.Success)
	require.Len(t, f.clicks.created, 1)
}

func TestTrackClickDuplicateRejected(t *testing.T) {
	withFeatureFlags(t, config.FlagClickDedupe)
	f := newClickFixture(t)

	req := &ClickRequest{
		ImpressionID: "imp_1",
		ClickURL:     "https://example.com/offer",
		UserID:       "user_1",
	}

	first := f.svc.TrackClick(context.Background(), req)
	require.True(t, first.Success)

	second := f.svc.TrackClick(context.Background(), req)
	require.False(t, second.Success)
	require.Equal(t, "Duplicate click", second.Error)

	// Only the first click was persisted.
	require.Len(t, f.clicks.created, 1)
}

func TestTrackClickDedupeDisabledAllowsRepeat(t *testing.T) {
	withFeatureFlags(t)
	f := newClickFixture(t)

	req := &ClickRequest{ImpressionID: "imp_1", ClickURL: "https://example.com/offer"}
	require.True(t, f.svc.TrackClick(context.Background(), req).Success)
	require.True(t, f.svc.TrackClick(context.Background(), req).Success)
	require.Len(t, f.clicks.created, 2)
}

func TestTrackClickPersistFailure(t *testing.T) {
	withFeatureFlags(t)
	f := newClickFixture(t)
	f.clicks.createErr = errors.New("disk full")

	res := f.svc.TrackClick(context.Background(), &ClickRequest{
		ImpressionID: "imp_1",
		ClickURL:     "https://example.com/offer",
	})

	require.False(t, res.Success)
	require.Equal(t, "Internal server error", res.Error)
	// Hooks only fire after a successful write.
	require.Zero(t, f.provider.clickCalls)
}

func TestTrackClickProviderHookFailureTolerated(t *testing.T) {
	withFeatureFlags(t)
	f := newClickFixture(t)
	f.provider.clickErr = errors.New("vendor timeout")

	res := f.svc.TrackClick(context.Background(), &ClickRequest{
		ImpressionID: "imp_1",
		ClickURL:     "https://example.com/offer",
	})

	require.True(t, res.Success)
	require.Len(t, f.clicks.created, 1)
}

func TestTrackClickRewardsAuthenticatedUser(t *testing.T) {
	withFeatureFlags(t)

	prevEnabled, prevRatio, prevParam := config.CreditsOnClickEnabled, config.CreditRatio, config.CreditConversionParam
	config.CreditsOnClickEnabled = true
	config.CreditRatio = 2
	config.CreditConversionParam = 1.5
	t.Cleanup(func() {
		config.CreditsOnClickEnabled, config.CreditRatio, config.CreditConversionParam = prevEnabled, prevRatio, prevParam
	})

	f := newClickFixture(t)

	res := f.svc.TrackClick(context.Background(), &ClickRequest{
		ImpressionID: "imp_1",
		ClickURL:     "https://example.com/offer",
		UserID:       "user_1",
		Bearer:       "bearer-token",
	})

	require.True(t, res.Success)
	require.Equal(t, 1, f.gate.rewardCalls)
}

func TestTrackClickNoRewardWithoutBearer(t *testing.T) {
	withFeatureFlags(t)

	prevEnabled := config.CreditsOnClickEnabled
	config.CreditsOnClickEnabled = true
	t.Cleanup(func() { config.CreditsOnClickEnabled = prevEnabled })

	f := newClickFixture(t)

	res := f.svc.TrackClick(context.Background(), &ClickRequest{
		ImpressionID: "imp_1",
		ClickURL:     "https://example.com/offer",
	})

	require.True(t, res.Success)
	require.Zero(t, f.gate.rewardCalls)
}

func TestTrackClickRewardFailureTolerated(t *testing.T) {
	withFeatureFlags(t)

	prevEnabled := config.CreditsOnClickEnabled
	config.CreditsOnClickEnabled = true
	t.Cleanup(func() { config.CreditsOnClickEnabled = prevEnabled })

	f := newClickFixture(t)
	f.gate.rewardErr = errors.New("credits service down")

	res := f.svc.TrackClick(context.Background(), &ClickRequest{
		ImpressionID: "imp_1",
		ClickURL:     "https://example.com/offer",
		Bearer:       "bearer-token",
	})

	require.True(t, res.Success)
	require.Len(t, f.clicks.created, 1)
}
