package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered schema history. Entries are append-only.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_location_fixes",
		SQL: `
			CREATE TABLE IF NOT EXISTS location_fixes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				latitude REAL NOT NULL,
				longitude REAL NOT NULL,
				timestamp_utc INTEGER NOT NULL,
				accuracy_meters REAL NOT NULL,
				speed_mps REAL NOT NULL DEFAULT -1,
				activity_type TEXT,
				activity_confidence REAL
			);
			CREATE INDEX IF NOT EXISTS idx_location_fixes_timestamp ON location_fixes(timestamp_utc);
		`,
	},
	{
		Version: 2,
		Name:    "create_places_and_visits",
		SQL: `
			CREATE TABLE IF NOT EXISTS places (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				category TEXT NOT NULL,
				centroid_lat REAL NOT NULL,
				centroid_lon REAL NOT NULL,
				radius_meters REAL NOT NULL CHECK (radius_meters > 0),
				confidence REAL NOT NULL CHECK (confidence >= 0 AND confidence <= 1),
				visit_count INTEGER NOT NULL DEFAULT 0 CHECK (visit_count >= 0),
				status TEXT NOT NULL,
				created_at INTEGER NOT NULL,
				updated_at INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_places_status ON places(status);

			CREATE TABLE IF NOT EXISTS visits (
				id TEXT PRIMARY KEY,
				place_id TEXT NOT NULL REFERENCES places(id) ON DELETE CASCADE,
				entry_time INTEGER NOT NULL,
				exit_time INTEGER
			);
			CREATE INDEX IF NOT EXISTS idx_visits_place ON visits(place_id);
		`,
	},
	{
		Version: 3,
		Name:    "create_reviews_and_learning",
		SQL: `
			CREATE TABLE IF NOT EXISTS place_reviews (
				id TEXT PRIMARY KEY,
				place_id TEXT NOT NULL REFERENCES places(id) ON DELETE CASCADE,
				status TEXT NOT NULL,
				priority INTEGER NOT NULL,
				breakdown_json TEXT,
				created_at INTEGER NOT NULL,
				resolved_at INTEGER
			);
			CREATE INDEX IF NOT EXISTS idx_place_reviews_status ON place_reviews(status);

			CREATE TABLE IF NOT EXISTS category_preferences (
				category TEXT PRIMARY KEY,
				score REAL NOT NULL CHECK (score >= -1 AND score <= 1),
				acceptance_count INTEGER NOT NULL DEFAULT 0,
				rejection_count INTEGER NOT NULL DEFAULT 0,
				correction_count INTEGER NOT NULL DEFAULT 0,
				updated_at INTEGER NOT NULL
			);

			CREATE TABLE IF NOT EXISTS user_corrections (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				place_id TEXT NOT NULL,
				original_category TEXT NOT NULL,
				corrected_category TEXT NOT NULL,
				created_at INTEGER NOT NULL
			);
		`,
	},
	{
		Version: 4,
		Name:    "create_detection_runs",
		SQL: `
			CREATE TABLE IF NOT EXISTS detection_runs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				status TEXT NOT NULL DEFAULT 'pending',
				lookback_hours INTEGER NOT NULL,
				total_fixes INTEGER NOT NULL DEFAULT 0,
				filtered_fixes INTEGER NOT NULL DEFAULT 0,
				cluster_count INTEGER NOT NULL DEFAULT 0,
				accepted_count INTEGER NOT NULL DEFAULT 0,
				review_count INTEGER NOT NULL DEFAULT 0,
				rejected_count INTEGER NOT NULL DEFAULT 0,
				progress_percent REAL NOT NULL DEFAULT 0,
				error_message TEXT,
				summary_json TEXT,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				started_at TIMESTAMP,
				completed_at TIMESTAMP
			);
		`,
	},
}

// Migrate applies all pending migrations in version order
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}
		if err := applyMigration(db, migration); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}
		log.Printf("Applied migration %d: %s", migration.Version, migration.Name)
	}

	return nil
}

// initMigrationsTable creates the migrations tracking table
func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// appliedMigrations returns the set of applied migration versions
func appliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, nil
}

// applyMigration applies a single migration in a transaction
func applyMigration(db *sql.DB, migration Migration) error {
	return Transaction(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(migration.SQL); err != nil {
			return fmt.Errorf("failed to execute migration SQL: %w", err)
		}
		if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", migration.Version, migration.Name); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}
		return nil
	})
}
