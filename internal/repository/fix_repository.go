package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jengzang/places-backend-go/internal/models"
)

// FixRepository handles database operations for location fixes. It backs the
// pipeline's LocationSource collaborator.
type FixRepository struct {
	db *sql.DB
}

// NewFixRepository creates a new fix repository
func NewFixRepository(db *sql.DB) *FixRepository {
	return &FixRepository{db: db}
}

// FixesSince returns all fixes at or after the given time, ordered by
// timestamp then id
func (r *FixRepository) FixesSince(ctx context.Context, since time.Time) ([]models.LocationFix, error) {
	query := `
		SELECT id, latitude, longitude, timestamp_utc, accuracy_meters, speed_mps, activity_type, activity_confidence
		FROM location_fixes
		WHERE timestamp_utc >= ?
		ORDER BY timestamp_utc, id
	`

	rows, err := r.db.QueryContext(ctx, query, since.Unix())
	if err != nil {
		return nil, wrapStorageErr("query location fixes", err)
	}
	defer rows.Close()

	var fixes []models.LocationFix
	for rows.Next() {
		var fix models.LocationFix
		var activityType sql.NullString
		var activityConfidence sql.NullFloat64

		if err := rows.Scan(&fix.ID, &fix.Latitude, &fix.Longitude, &fix.TimestampUTC,
			&fix.AccuracyMeters, &fix.SpeedMps, &activityType, &activityConfidence); err != nil {
			return nil, fmt.Errorf("failed to scan location fix: %w", err)
		}

		if activityType.Valid {
			fix.Activity = &models.DetectedActivity{
				Type:       models.ActivityType(activityType.String),
				Confidence: activityConfidence.Float64,
			}
		}
		fixes = append(fixes, fix)
	}

	return fixes, rows.Err()
}

// InsertFixes stores a batch of fixes in one transaction
func (r *FixRepository) InsertFixes(ctx context.Context, fixes []models.LocationFix) error {
	if len(fixes) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO location_fixes (latitude, longitude, timestamp_utc, accuracy_meters, speed_mps, activity_type, activity_confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, fix := range fixes {
		var activityType interface{}
		var activityConfidence interface{}
		if fix.Activity != nil {
			activityType = string(fix.Activity.Type)
			activityConfidence = fix.Activity.Confidence
		}

		if _, err := stmt.ExecContext(ctx, fix.Latitude, fix.Longitude, fix.TimestampUTC,
			fix.AccuracyMeters, fix.SpeedMps, activityType, activityConfidence); err != nil {
			return wrapStorageErr("insert location fix", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CountFixes returns the number of stored fixes
func (r *FixRepository) CountFixes(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM location_fixes").Scan(&count); err != nil {
		return 0, wrapStorageErr("count location fixes", err)
	}
	return count, nil
}
