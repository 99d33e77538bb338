// Package database provides schema instantiation
package database

import (
	"database/sql"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// TableCreator handles the creation of the ad service database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the database tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedInitialContent adds the default ad unit required for the service to
// serve before any units are provisioned.
func (tc *TableCreator) SeedInitialContent(db *sql.DB) error {
	var adUnitExists bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM ad_units WHERE id = 'default')").Scan(&adUnitExists)
	if err != nil {
		return fmt.Errorf("failed to check for default ad unit: %w", err)
	}

	if !adUnitExists {
		_, err = db.Exec(`INSERT INTO ad_units (id, name, type, format, client_id, slot_id) VALUES (?, ?, ?, ?, ?, ?)`,
			"default", "Default Banner", "banner", "728x90", "", "")
		if err != nil {
			return fmt.Errorf("failed to insert default ad unit: %w", err)
		}
	}

	for _, name := range []string{"google", "affiliate", "minigame"} {
		var exists bool
		err = db.QueryRow("SELECT EXISTS(SELECT 1 FROM ad_providers WHERE id = ?)", name).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check for provider %s: %w", name, err)
		}
		if !exists {
			_, err = db.Exec(`INSERT INTO ad_providers (id, display_name) VALUES (?, ?)`, name, name)
			if err != nil {
				return fmt.Errorf("failed to insert provider %s: %w", name, err)
			}
		}
	}

	return nil
}

// GenerateID returns a new ULID suitable for primary keys.
func GenerateID() string {
	return ulid.Make().String()
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS ad_units (id TEXT PRIMARY KEY, name TEXT NOT NULL, type TEXT NOT NULL CHECK(type IN ('banner', 'video', 'native', 'interstitial')), format TEXT NOT NULL, client_id TEXT NOT NULL, slot_id TEXT NOT NULL, width INTEGER, height INTEGER, status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'paused', 'archived')), created_at DATETIME DEFAULT CURRENT_TIMESTAMP, updated_at DATETIME DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS ad_impressions (id TEXT PRIMARY KEY, ad_unit_id TEXT NOT NULL, provider TEXT DEFAULT 'google', user_id TEXT, session_id TEXT NOT NULL, timestamp DATETIME DEFAULT CURRENT_TIMESTAMP, page TEXT NOT NULL, device_type TEXT NOT NULL CHECK(device_type IN ('desktop', 'mobile', 'tablet')), user_agent TEXT NOT NULL, ip_address TEXT, country TEXT, revenue REAL DEFAULT 0, FOREIGN KEY (ad_unit_id) REFERENCES ad_units(id))`,
	`CREATE TABLE IF NOT EXISTS ad_clicks (id TEXT PRIMARY KEY, impression_id TEXT NOT NULL, ad_unit_id TEXT NOT NULL, provider TEXT DEFAULT 'google', user_id TEXT, session_id TEXT NOT NULL, timestamp DATETIME DEFAULT CURRENT_TIMESTAMP, click_url TEXT NOT NULL, revenue REAL DEFAULT 0, FOREIGN KEY (impression_id) REFERENCES ad_impressions(id), FOREIGN KEY (ad_unit_id) REFERENCES ad_units(id))`,
	`CREATE TABLE IF NOT EXISTS ad_providers (id TEXT PRIMARY KEY, display_name TEXT NOT NULL, weight INTEGER DEFAULT 100, active INTEGER DEFAULT 1, created_at DATETIME DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS provider_revenue_daily (id INTEGER PRIMARY KEY AUTOINCREMENT, provider TEXT NOT NULL, date DATE NOT NULL, gross_revenue REAL NOT NULL DEFAULT 0, currency TEXT DEFAULT 'USD', source_ref TEXT, created_at DATETIME DEFAULT CURRENT_TIMESTAMP, UNIQUE (provider, date))`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_impressions_ad_unit_id ON ad_impressions(ad_unit_id)`,
	`CREATE INDEX IF NOT EXISTS idx_impressions_timestamp ON ad_impressions(timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_impressions_user_id ON ad_impressions(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_clicks_impression_id ON ad_clicks(impression_id)`,
	`CREATE INDEX IF NOT EXISTS idx_clicks_ad_unit_id ON ad_clicks(ad_unit_id)`,
	`CREATE INDEX IF NOT EXISTS idx_clicks_timestamp ON ad_clicks(timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_revenue_provider_date ON provider_revenue_daily(provider, date)`,
}
