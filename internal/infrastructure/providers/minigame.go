package providers

import (
	"context"

	"github.com/classguru/adserve-go/internal/domain/ads"
	"github.com/oklog/ulid/v2"
)

// MinigameProvider serves an HTML entry point for a rewarded mini-game.
type MinigameProvider struct{}

// NewMinigameProvider creates the minigame provider.
func NewMinigameProvider() *MinigameProvider {
	return &MinigameProvider{}
}

func (p *MinigameProvider) Name() string { return "minigame" }

// RequestAd returns a static HTML placeholder inviting the user to play.
func (p *MinigameProvider) RequestAd(_ context.Context, _ *ads.RequestContext) (*ads.AdObject, error) {
	return &ads.AdObject{
		ID:           ulid.Make().String(),
		Type:         "html",
		Content:      "<div>Play a quick game and earn rewards!</div>",
		ImpressionID: ulid.Make().String(),
		Provider:     "minigame",
	}, nil
}

func (p *MinigameProvider) OnClick(_ context.Context, _ *ads.ClickContext) (*ads.ClickResult, error) {
	return &ads.ClickResult{Success: true}, nil
}

// OnReward grants a single play credit when the reward loop is enabled.
func (p *MinigameProvider) OnReward(_ context.Context, _ *ads.ClickContext) (*ads.RewardResult, error) {
	return &ads.RewardResult{Success: true, CreditsAwarded: 1}, nil
}
