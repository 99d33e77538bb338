package ads

import (
	"database/sql"
	"time"

	"github.com/classguru/adserve-go/internal/domain/ads"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/logging"
	"github.com/classguru/adserve-go/internal/infrastructure/persistence/database"
)

// SQLClickRepository is the SQL-based implementation of the ClickRepository.
type SQLClickRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLClickRepository creates a new instance of the repository.
func NewSQLClickRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLClickRepository {
	return &SQLClickRepository{db: db, logger: logger}
}

// Create saves a new Click to the database.
func (r *SQLClickRepository) Create(click *ads.Click) error {
	const query = `
		INSERT INTO ad_clicks (id, impression_id, ad_unit_id, provider, user_id, session_id, click_url, revenue, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var userID sql.NullString
	if click.UserID != nil {
		userID = sql.NullString{String: *click.UserID, Valid: true}
	}

	start := time.Now()
	_, err := r.db.Exec(
		query,
		click.ID,
		click.ImpressionID,
		click.AdUnitID,
		click.Provider,
		userID,
		click.SessionID,
		click.ClickURL,
		click.Revenue,
		click.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return err
}

// CountInRange returns the click count and summed revenue for an ad unit
// within [start, end).
func (r *SQLClickRepository) CountInRange(adUnitID string, startAt, endAt time.Time) (int, float64, error) {
	const query = `
		SELECT COUNT(*), COALESCE(SUM(revenue), 0)
		FROM ad_clicks
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
