// Package ads defines the core entities of the ad-serving domain and the
// interfaces for persisting them. These types abstract the data persistence
// details, ensuring the orchestration layer stays decoupled from the database.
package ads

import "time"

// DeviceType enumerates the device classes an ad request can originate from.
type DeviceType string

const (
	DeviceDesktop DeviceType = "desktop"
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
)

// RequestContext carries the per-request information passed to a provider.
// Constructed fresh for each incoming request, never persisted directly.
type RequestContext struct {
	UserID     string     `json:"userId,omitempty"`
	SessionID  string     `json:"sessionId"`
	Page       string     `json:"page"`
	Format     string     `json:"format"`
	DeviceType DeviceType `json:"deviceType"`
	UserAgent  string     `json:"-"`
}

// AdObject is a renderable ad produced by a provider. Content is an opaque
// markup blob. ImpressionID is minted fresh by the provider and scoped to
// exactly one ad-serving event.
type AdObject struct {
	ID               string `json:"id"`
	Type             string `json:"type"`
	Content          string `json:"content"`
	ClickURL         string `json:"clickUrl,omitempty"`
	ImpressionID     string `json:"impressionId"`
	Provider         string `json:"provider,omitempty"`
	ViewabilityToken string `json:"viewabilityToken,omitempty"`
}

// ClickContext is passed to provider click hooks; ephemeral.
type ClickContext struct {
	AdID         string `json:"adId"`
	ImpressionID string `json:"impressionId"`
	UserID       string `json:"userId,omitempty"`
	ClickURL     string `json:"clickUrl,omitempty"`
}

// ClickResult reports the outcome of a provider click hook.
type ClickResult struct {
	Success bool `json:"success"`
}

// RewardResult reports the outcome of a provider reward hook.
type RewardResult struct {
	Success        bool `json:"success"`
	CreditsAwarded int  `json:"creditsAwarded,omitempty"`
}

// RevenueBatch is one day of gross revenue reported by a provider,
// consumed by the periodic revenue sync.
type RevenueBatch struct {
	Provider     string  `json:"provider"`
	Date         string  `json:"date"` // ISO date (YYYY-MM-DD)
	GrossRevenue float64 `json:"grossRevenue"`
	Currency     string  `json:"currency,omitempty"`
	SourceRef    string  `json:"sourceRef,omitempty"`
}

// CreditsStatus is the entitlement snapshot fetched fresh per request from
// the external credits service. Never cached, never persisted.
type CreditsStatus struct {
	UserID        string `json:"userId"`
	IsPremium     bool   `json:"isPremium"`
	CreditBalance int    `json:"creditBalance"`
	CanSkipAds    bool   `json:"canSkipAds"`
}

// CreditsDecision is the three-outcome result of the credits gate. Unknown
// collapses to MustSeeAds behavior so entitlement-service downtime never
// blocks ad serving.
type CreditsDecision int

const (
	DecisionUnknown CreditsDecision = iota
	DecisionMustSeeAds
	DecisionCanSkip
)

func (d CreditsDecision) String() string {
	switch d {
	case DecisionCanSkip:
		return "can_skip"
	case DecisionMustSeeAds:
		return "must_see_ads"
	default:
		return "unknown"
	}
}

// Impression is one instance of an ad being shown to a session.
type Impression struct {
	ID         string     `json:"id"`
	AdUnitID   string     `json:"adUnitId"`
	Provider   string     `json:"provider"`
	UserID     *string    `json:"userId,omitempty"`
	SessionID  string     `json:"sessionId"`
	Page       string     `json:"page"`
	DeviceType DeviceType `json:"deviceType"`
	UserAgent  string     `json:"userAgent"`
	Revenue    float64    `json:"revenue"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Click is a recorded click against an existing impression.
type Click struct {
	ID           string    `json:"id"`
	ImpressionID string    `json:"impressionId"`
	AdUnitID     string    `json:"adUnitId"`
	Provider     string    `json:"provider"`
	UserID       *string   `json:"userId,omitempty"`
	SessionID    string    `json:"sessionId"`
	ClickURL     string    `json:"clickUrl"`
	Revenue      float64   `json:"revenue"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Metrics is the aggregate view of an ad unit over a period.
// CTR is a percentage; RPM is revenue per 1000 impressions.
type Metrics struct {
	AdUnitID    string        `json:"adUnitId"`
	Impressions int           `json:"impressions"`
	Clicks      int           `json:"clicks"`
	CTR         float64       `json:"ctr"`
	Revenue     float64       `json:"revenue"`
	RPM         float64       `json:"rpm"`
	Period      MetricsPeriod `json:"period"`
}

// MetricsPeriod bounds a metrics query.
type MetricsPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
