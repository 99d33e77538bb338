// Package ads provides the concrete SQL-based implementations of
// the ad domain repositories (Impression, Click, Revenue).
package ads

import (
	"database/sql"
	"time"

	"github.com/classguru/adserve-go/internal/domain/ads"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/logging"
	"github.com/classguru/adserve-go/internal/infrastructure/persistence/database"
)

// SQLImpressionRepository is the SQL-based implementation of the ImpressionRepository.
type SQLImpressionRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLImpressionRepository creates a new instance of the repository.
func NewSQLImpressionRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLImpressionRepository {
	return &SQLImpressionRepository{db: db, logger: logger}
}

// FindByID retrieves an Impression by its unique identifier. Returns
// (nil, nil) when no impression exists for the id.
func (r *SQLImpressionRepository) FindByID(id string) (*ads.Impression, error) {
	const query = `
		SELECT id, ad_unit_id, provider, user_id, session_id, page, device_type, user_agent, revenue, timestamp
		FROM ad_impressions
		WHERE id = ?`

	start := time.Now()
	row := r.db.QueryRow(query, id)
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))

	return r.scanImpression(row)
}

// Create saves a new Impression to the database.
func (r *SQLImpressionRepository) Create(impression *ads.Impression) error {
	const query = `
		INSERT INTO ad_impressions (id, ad_unit_id, provider, user_id, session_id, page, device_type, user_agent, revenue, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var userID sql.NullString
	if impression.UserID != nil {
		userID = sql.NullString{String: *impression.UserID, Valid: true}
	}

	start := time.Now()
	_, err := r.db.Exec(
		query,
		impression.ID,
		impression.AdUnitID,
		impression.Provider,
		userID,
		impression.SessionID,
		impression.Page,
		string(impression.DeviceType),
		impression.UserAgent,
		impression.Revenue,
		impression.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return err
}

// CountInRange returns the impression count and summed revenue for an ad
// unit within [start, end).
func (r *SQLImpressionRepository) CountInRange(adUnitID string, startAt, endAt time.Time) (int, float64, error) {
	const query = `
		SELECT COUNT(*), COALESCE(SUM(revenue), 0)
		FROM ad_impressions
		WHERE ad_unit_id = ? AND timestamp >= ? AND timestamp < ?`

	start := time.Now()
	row := r.db.QueryRow(
		query,
		adUnitID,
		startAt.UTC().Format("2006-01-02 15:04:05"),
		endAt.UTC().Format("2006-01-02 15:04:05"),
	)
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))

	var count int
	var revenue float64
	if err := row.Scan(&count, &revenue); err != nil {
		return 0, 0, err
	}
	return count, revenue, nil
}

// scanImpression is a helper function to scan a sql.Row into an Impression struct.
func (r *SQLImpressionRepository) scanImpression(row *sql.Row) (*ads.Impression, error) {
	var impression ads.Impression
	var userID sql.NullString
	var deviceType string
	var createdAtStr string

	err := row.Scan(
		&impression.ID,
		&impression.AdUnitID,
		&impression.Provider,
		&userID,
		&impression.SessionID,
		&impression.Page,
		&deviceType,
		&impression.UserAgent,
		&impression.Revenue,
		&createdAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, err
	}

	if userID.Valid {
		impression.UserID = &userID.String
	}
	impression.DeviceType = ads.DeviceType(deviceType)

	impression.CreatedAt, err = parseTimestamp(createdAtStr)
	if err != nil {
		return nil, err
	}

	return &impression, nil
}

// parseTimestamp handles both RFC3339 and the plain sqlite datetime format.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02 15:04:05", s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t, nil
}
