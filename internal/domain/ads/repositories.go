package ads

import "time"

// ImpressionRepository defines the operations for persisting Impression records.
type ImpressionRepository interface {
	// FindByID retrieves an impression by id, returning (nil, nil) when absent.
	FindByID(id string) (*Impression, error)
	Create(impression *Impression) error
	CountInRange(adUnitID string, start, end time.Time) (int, float64, error)
}

// ClickRepository defines the operations for persisting Click records.
type ClickRepository interface {
	Create(click *Click) error
	CountInRange(adUnitID string, start, end time.Time) (int, float64, error)
}

// RevenueRepository stores daily gross revenue batches reported by providers.
type RevenueRepository interface {
	// Upsert replaces any existing row for the batch's provider+date pair.
	Upsert(batch *RevenueBatch) error
	FindByProvider(provider string, start, end time.Time) ([]*RevenueBatch, error)
}
