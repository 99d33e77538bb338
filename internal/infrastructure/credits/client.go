// Package credits integrates with the external payment/credits service that
// decides whether a user may skip ads and receives click reward credits.
//
// The gate is deliberately fail-open: any transport error, timeout, or
// non-success status yields DecisionUnknown, and callers treat Unknown the
// same as MustSeeAds. Entitlement-service downtime must never block
// revenue-generating ad serving.
package credits

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/classguru/adserve-go/internal/domain/ads"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/logging"
)

// Client is the HTTP client for the credits service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.ChanneledLogger
}

// OperationResult is the response body of reward/deduct calls.
type OperationResult struct {
	Success        bool   `json:"success"`
	UserID         string `json:"userId,omitempty"`
	AmountRewarded int    `json:"amountRewarded,omitempty"`
	AmountDeducted int    `json:"amountDeducted,omitempty"`
	NewBalance     int    `json:"newBalance,omitempty"`
	Reason         string `json:"reason,omitempty"`
	Error          string `json:"error,omitempty"`
}

// NewClient creates a credits client with the given base URL and timeout.
func NewClient(baseURL string, timeout time.Duration, logger *logging.ChanneledLogger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// GetStatus fetches the user's entitlement snapshot. The status is fetched
// fresh per request and never cached. When the canSkipAds flag is absent
// from the response it defaults to isPremium || creditBalance > 0.
func (c *Client) GetStatus(ctx context.Context, bearer string) (*ads.CreditsStatus, ads.CreditsDecision) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/credits/status", nil)
	if err != nil {
		c.logger.Credits().Error("Failed to build credits status request", "error", err.Error())
		return nil, ads.DecisionUnknown
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Credits().Error("Failed to get credits status", "error", err.Error())
		return nil, ads.DecisionUnknown
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		c.logger.Credits().Warn("Credits status returned non-success", "status", res.StatusCode)
		return nil, ads.DecisionUnknown
	}

	var body struct {
		UserID        string `json:"userId"`
		IsPremium     bool   `json:"isPremium"`
		CreditBalance int    `json:"creditBalance"`
		CanSkipAds    *bool  `json:"canSkipAds"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		c.logger.Credits().Error("Failed to decode credits status", "error", err.Error())
		return nil, ads.DecisionUnknown
	}

	status := &ads.CreditsStatus{
		UserID:        body.UserID,
		IsPremium:     body.IsPremium,
		CreditBalance: body.CreditBalance,
	}
	if body.CanSkipAds != nil {
		status.CanSkipAds = *body.CanSkipAds
	} else {
		status.CanSkipAds = body.IsPremium || body.CreditBalance > 0
	}

	if status.CanSkipAds {
		return status, ads.DecisionCanSkip
	}
	return status, ads.DecisionMustSeeAds
}

// Reward credits the user's account, typically after a qualifying ad click.
func (c *Client) Reward(ctx context.Context, bearer string, amount int, reason string) (*OperationResult, error) {
	if reason == "" {
		reason = "ad_click_reward"
	}
	return c.post(ctx, bearer, "/api/credits/reward", map[string]any{"amount": amount, "reason": reason})
}

// Deduct removes credits from the user's account, e.g. when spending
// credits to skip an ad.
func (c *Client) Deduct(ctx context.Context, bearer string, amount int, reason string) (*OperationResult, error) {
	if reason == "" {
		reason = "skip_ad"
	}
	return c.post(ctx, bearer, "/api/credits/deduct", map[string]any{"amount": amount, "reason": reason})
}

func (c *Client) post(ctx context.Context, bearer, path string, payload map[string]any) (*OperationResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("credits call %s failed: %w", path, err)
	}
	defer res.Body.Close()

	var result OperationResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("credits call %s returned unreadable body: %w", path, err)
	}

	if res.StatusCode != http.StatusOK {
		if result.Error == "" {
			result.Error = fmt.Sprintf("credits service returned %d", res.StatusCode)
		}
		result.Success = false
		return &result, nil
	}

	result.Success = true
	return &result, nil
}
