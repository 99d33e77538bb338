package services

import (
	"context"
	"math"
	"time"

	"github.com/classguru/adserve-go/internal/domain/ads"
	"github.com/classguru/adserve-go/internal/domain/providers"
	"github.com/classguru/adserve-go/internal/infrastructure/abuse"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/logging"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/metrics"
	"github.com/classguru/adserve-go/pkg/config"
	"github.com/google/uuid"
)

// ProviderSource resolves a provider by name for click and reward hooks.
type ProviderSource interface {
	Get(name string) (providers.AdProvider, bool)
}

// ClickRequest carries one incoming click event.
type ClickRequest struct {
	ImpressionID     string
	ClickURL         string
	ViewabilityToken string
	UserID           string
	Bearer           string
}

// ClickResponse is the outcome of tracking a click.
type ClickResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ClickService orchestrates the click path: impression lookup, viewability
// validation, dedupe, persistence, provider hooks, and credit rewards.
type ClickService struct {
	impressions ads.ImpressionRepository
	clicks      ads.ClickRepository
	guard       *abuse.Guard
	codec       *abuse.ViewabilityCodec
	providers   ProviderSource
	creditsGate CreditsGateway
	metrics     *metrics.Metrics
	logger      *logging.ChanneledLogger
}

// NewClickService creates a new click service.
func NewClickService(
	impressions ads.ImpressionRepository,
	clicks ads.ClickRepository,
	guard *abuse.Guard,
	codec *abuse.ViewabilityCodec,
	providerSource ProviderSource,
	creditsGate CreditsGateway,
	m *metrics.Metrics,
	logger *logging.ChanneledLogger,
) *ClickService {
	return &ClickService{
		impressions: impressions,
		clicks:      clicks,
		guard:       guard,
		codec:       codec,
		providers:   providerSource,
		creditsGate: creditsGate,
		metrics:     m,
		logger:      logger,
	}
}

// TrackClick validates and records one click. The anti-abuse checks run in
// a fixed order before any write: impression existence, viewability, then
// dedupe. A rejected click leaves no trace in the clicks table.
func (s *ClickService) TrackClick(ctx context.Context, req *ClickRequest) *ClickResponse {
	s.logger.Clicks().Info("Processing ad click",
		"impressionId", req.ImpressionID, "userId", req.UserID)

	impression, err := s.impressions.FindByID(req.ImpressionID)
	if err != nil {
		s.logger.Clicks().Error("Impression lookup failed",
			"impressionId", req.ImpressionID, "error", err.Error())
		return &ClickResponse{Success: false, Error: "Internal server error"}
	}
	if impression == nil {
		s.logger.Clicks().Warn("Impression not found", "impressionId", req.ImpressionID)
		s.metrics.ClicksRejected.WithLabelValues("not_found").Inc()
		return &ClickResponse{Success: false, Error: "Impression not found"}
	}

	if config.HasFeatureFlag(config.FlagViewability) {
		if !s.codec.Validate(req.ViewabilityToken) {
			s.logger.Clicks().Warn("Viewability not satisfied", "impressionId", req.ImpressionID)
			s.metrics.ClicksRejected.WithLabelValues("viewability").Inc()
			return &ClickResponse{Success: false, Error: "Viewability not satisfied"}
		}
	}

	if config.HasFeatureFlag(config.FlagClickDedupe) {
		key := s.guard.Key(req.ImpressionID, req.UserID, impression.SessionID)
		if s.guard.CheckAndRecord(key) {
			s.logger.Clicks().Warn("Duplicate click", "impressionId", req.ImpressionID)
			s.metrics.ClicksRejected.WithLabelValues("duplicate").Inc()
			return &ClickResponse{Success: false, Error: "Duplicate click"}
		}
	}

	var userID *string
	if req.UserID != "" {
		userID = &req.UserID
	}

	click := &ads.Click{
		ID:           uuid.NewString(),
		ImpressionID: req.ImpressionID,
		AdUnitID:     impression.AdUnitID,
		Provider:     impression.Provider,
		UserID:       userID,
		SessionID:    impression.SessionID,
		ClickURL:     req.ClickURL,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.clicks.Create(click); err != nil {
		s.logger.Clicks().Error("Failed to record click",
			"impressionId", req.ImpressionID, "error", err.Error())
		return &ClickResponse{Success: false, Error: "Internal server error"}
	}

	s.logger.Clicks().Info("Ad click recorded",
		"clickId", click.ID, "impressionId", req.ImpressionID)
	s.metrics.ClicksRecorded.WithLabelValues(impression.Provider).Inc()

	s.notifyProvider(ctx, impression, req)
	s.rewardCredits(ctx, req)

	return &ClickResponse{Success: true}
}

// notifyProvider forwards the click to the provider's hooks. Hook failures
// never fail the click: the record is already persisted.
func (s *ClickService) notifyProvider(ctx context.Context, impression *ads.Impression, req *ClickRequest) {
	provider, ok := s.providers.Get(impression.Provider)
	if !ok {
		return
	}

	clickCtx := &ads.ClickContext{
		AdID:         impression.AdUnitID,
		ImpressionID: req.ImpressionID,
		UserID:       req.UserID,
		ClickURL:     req.ClickURL,
	}

	if _, err := provider.OnClick(ctx, clickCtx); err != nil {
		s.logger.Providers().Warn("Provider click hook failed",
			"provider", provider.Name(), "error", err.Error())
	}

	if rewarder, ok := provider.(providers.RewardHook); ok {
		if _, err := rewarder.OnReward(ctx, clickCtx); err != nil {
			s.logger.Providers().Warn("Provider reward hook failed",
				"provider", provider.Name(), "error", err.Error())
		}
	}
}

// rewardCredits issues a credit reward for the click when enabled and the
// caller is authenticated. Reward failures are logged and swallowed; the
// click itself already succeeded.
func (s *ClickService) rewardCredits(ctx context.Context, req *ClickRequest) {
	if !config.CreditsOnClickEnabled || req.Bearer == "" {
		return
	}

	amount := int(math.Floor(config.CreditRatio * config.CreditConversionParam))
	if amount <= 0 {
		return
	}

	result, err := s.creditsGate.Reward(ctx, req.Bearer, amount, "ad_click_reward")
	if err != nil {
		s.logger.Credits().Warn("Credit reward failed",
			"impressionId", req.ImpressionID, "error", err.Error())
		return
	}
	if !result.Success {
		s.logger.Credits().Warn("Credit reward rejected",
			"impressionId", req.ImpressionID, "reason", result.Error)
		return
	}

	s.metrics.RewardsIssued.Inc()
	s.logger.Credits().Info("Credit reward issued",
		"impressionId", req.ImpressionID, "amount", amount)
}
