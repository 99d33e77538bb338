package ads

import (
	"database/sql"
	"time"

	"github.com/classguru/adserve-go/internal/domain/ads"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/logging"
	"github.com/classguru/adserve-go/internal/infrastructure/persistence/database"
)

// SQLRevenueRepository is the SQL-based implementation of the RevenueRepository.
type SQLRevenueRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLRevenueRepository creates a new instance of the repository.
func NewSQLRevenueRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLRevenueRepository {
	return &SQLRevenueRepository{db: db, logger: logger}
}

// Upsert replaces any existing row for the batch's provider+date pair so
// re-running a sync window is idempotent.
func (r *SQLRevenueRepository) Upsert(batch *ads.RevenueBatch) error {
	const query = `
		INSERT INTO provider_revenue_daily (provider, date, gross_revenue, currency, source_ref)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (provider, date) DO UPDATE SET
			gross_revenue = excluded.gross_revenue,
			currency = excluded.currency,
			source_ref = excluded.source_ref`

	currency := batch.Currency
	if currency == "" {
		currency = "USD"
	}

	start := time.Now()
	_, err := r.db.Exec(query, batch.Provider, batch.Date, batch.GrossRevenue, currency, batch.SourceRef)
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return err
}

// FindByProvider retrieves the daily revenue rows for a provider whose date
// falls within [start, end).
func (r *SQLRevenueRepository) FindByProvider(provider string, startAt, endAt time.Time) ([]*ads.RevenueBatch, error) {
	const query = `
		SELECT provider, date, gross_revenue, currency, source_ref
		FROM provider_revenue_daily
		WHERE provider = ? AND date >= ? AND date < ?
		ORDER BY date ASC`

	start := time.Now()
	rows, err := r.db.Query(
		query,
		provider,
		startAt.UTC().Format("2006-01-02"),
		endAt.UTC().Format("2006-01-02"),
	)
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*ads.RevenueBatch
	for rows.Next() {
		var batch ads.RevenueBatch
		var sourceRef sql.NullString
		if err := rows.Scan(&batch.Provider, &batch.Date, &batch.GrossRevenue, &batch.Currency, &sourceRef); err != nil {
			return nil, err
		}
		batch.SourceRef = sourceRef.String
		batches = append(batches, &batch)
	}

	return batches, rows.Err()
}
