// Package services provides application-level orchestration services
package services

import (
	"context"
	"time"

	"github.com/classguru/adserve-go/internal/domain/ads"
	"github.com/classguru/adserve-go/internal/domain/providers"
	"github.com/classguru/adserve-go/internal/infrastructure/abuse"
	"github.com/classguru/adserve-go/internal/infrastructure/credits"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/logging"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/metrics"
)

// CreditsGateway is the entitlement surface consumed by the orchestrators.
// Implemented by the credits HTTP client; faked in tests.
type CreditsGateway interface {
	GetStatus(ctx context.Context, bearer string) (*ads.CreditsStatus, ads.CreditsDecision)
	Reward(ctx context.Context, bearer string, amount int, reason string) (*credits.OperationResult, error)
}

// ProviderSelector picks a provider for a request.
type ProviderSelector interface {
	Select(req *ads.RequestContext) providers.AdProvider
}

// AdResponse is the outcome of an ad request. Exactly one of Ad, SkipReason,
// or Error is populated.
type AdResponse struct {
	Success    bool          `json:"success"`
	Ad         *ads.AdObject `json:"ad,omitempty"`
	SkipReason string        `json:"skipReason,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// AdRequestService orchestrates the serve path: credits gate, provider
// selection, viewability token issuance, and impression persistence.
type AdRequestService struct {
	selector    ProviderSelector
	creditsGate CreditsGateway
	codec       *abuse.ViewabilityCodec
	impressions ads.ImpressionRepository
	metrics     *metrics.Metrics
	logger      *logging.ChanneledLogger
}

// NewAdRequestService creates a new ad request service.
func NewAdRequestService(
	selector ProviderSelector,
	creditsGate CreditsGateway,
	codec *abuse.ViewabilityCodec,
	impressions ads.ImpressionRepository,
	m *metrics.Metrics,
	logger *logging.ChanneledLogger,
) *AdRequestService {
	return &AdRequestService{
		selector:    selector,
		creditsGate: creditsGate,
		codec:       codec,
		impressions: impressions,
		metrics:     m,
		logger:      logger,
	}
}

// RequestAd serves one ad request. Entitled users (premium or holding
// credits) are skipped with no provider call and no persistence; everyone
// else gets an ad from the selected provider, stamped with a viewability
// token. A failed impression write never fails the request: the ad is
// already committed to the client at that point.
func (s *AdRequestService) RequestAd(ctx context.Context, req *ads.RequestContext, bearer string) *AdResponse {
	s.logger.Ads().Info("Processing ad request",
		"sessionId", req.SessionID, "page", req.Page, "userId", req.UserID)

	if bearer != "" && req.UserID != "" {
		status, decision := s.creditsGate.GetStatus(ctx, bearer)
		s.metrics.GateResults.WithLabelValues(decision.String()).Inc()

		if decision == ads.DecisionCanSkip {
			skipReason := "has_credits"
			if status.IsPremium {
				skipReason = "premium_user"
			}
			s.logger.Ads().Info("User can skip ads",
				"userId", req.UserID, "isPremium", status.IsPremium, "creditBalance", status.CreditBalance)
			s.metrics.AdsSkipped.WithLabelValues(skipReason).Inc()
			return &AdResponse{Success: true, SkipReason: skipReason}
		}
	}

	provider := s.selector.Select(req)
	ad, err := provider.RequestAd(ctx, req)
	if err != nil {
		s.logger.Ads().Error("Provider failed to produce ad",
			"provider", provider.Name(), "error", err.Error())
		s.metrics.AdsFailed.Inc()
		return &AdResponse{Success: false, Error: "Internal server error"}
	}

	if ad.Provider == "" {
		ad.Provider = provider.Name()
	}
	ad.ViewabilityToken = s.codec.Issue(ad.ImpressionID)

	if err := s.recordImpression(ad, req); err != nil {
		// The ad is already served; losing one analytics row is acceptable.
		s.logger.Ads().Error("Failed to record impression",
			"impressionId", ad.ImpressionID, "error", err.Error())
	}

	s.metrics.AdsServed.WithLabelValues(ad.Provider).Inc()
	return &AdResponse{Success: true, Ad: ad}
}

func (s *AdRequestService) recordImpression(ad *ads.AdObject, req *ads.RequestContext) error {
	deviceType := req.DeviceType
	if deviceType == "" {
		deviceType = ads.DeviceDesktop
	}

	var userID *string
	if req.UserID != "" {
		userID = &req.UserID
	}

	return s.impressions.Create(&ads.Impression{
		ID:         ad.ImpressionID,
		AdUnitID:   ad.ID,
		Provider:   ad.Provider,
		UserID:     userID,
		SessionID:  req.SessionID,
		Page:       req.Page,
		DeviceType: deviceType,
		UserAgent:  req.UserAgent,
		CreatedAt:  time.Now().UTC(),
	})
}
