package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jengzang/places-backend-go/internal/models"
)

// PreferenceRepository handles database operations for learned category
// preferences and the correction audit log. It is the write-through store
// behind the learning engine, so its mutating methods carry no context:
// they run inside the engine's per-category critical section.
type PreferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// UpsertPreference inserts or replaces the preference row for a category
func (r *PreferenceRepository) UpsertPreference(pref models.CategoryPreference) error {
	_, err := r.db.Exec(`
		INSERT INTO category_preferences (category, score, acceptance_count, rejection_count, correction_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(category) DO UPDATE SET
			score = excluded.score,
			acceptance_count = excluded.acceptance_count,
			rejection_count = excluded.rejection_count,
			correction_count = excluded.correction_count,
			updated_at = excluded.updated_at
	`, pref.Category, pref.Score, pref.AcceptanceCount, pref.RejectionCount,
		pref.CorrectionCount, time.Now().Unix())
	if err != nil {
		return wrapStorageErr("upsert category preference", err)
	}
	return nil
}

// AppendCorrection records one category correction. The log is append-only.
func (r *PreferenceRepository) AppendCorrection(correction models.UserCorrection) error {
	ts := correction.Timestamp
	if ts == 0 {
		ts = time.Now().Unix()
	}

	_, err := r.db.Exec(`
		INSERT INTO user_corrections (place_id, original_category, corrected_category, created_at)
		VALUES (?, ?, ?, ?)
	`, correction.PlaceID, correction.OriginalCategory, correction.CorrectedCategory, ts)
	if err != nil {
		return wrapStorageErr("append correction", err)
	}
	return nil
}

// LoadPreferences returns all persisted preference rows, used to seed the
// learning engine at startup
func (r *PreferenceRepository) LoadPreferences() ([]models.CategoryPreference, error) {
	rows, err := r.db.Query(`
		SELECT category, score, acceptance_count, rejection_count, correction_count, updated_at
		FROM category_preferences
		ORDER BY category
	`)
	if err != nil {
		return nil, wrapStorageErr("query category preferences", err)
	}
	defer rows.Close()

	var prefs []models.CategoryPreference
	for rows.Next() {
		var pref models.CategoryPreference
		if err := rows.Scan(&pref.Category, &pref.Score, &pref.AcceptanceCount,
			&pref.RejectionCount, &pref.CorrectionCount, &pref.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category preference: %w", err)
		}
		prefs = append(prefs, pref)
	}

	return prefs, rows.Err()
}

// ListCorrections returns the most recent corrections, newest first
func (r *PreferenceRepository) ListCorrections(limit int) ([]models.UserCorrection, error) {
	if limit < 1 {
		limit = 100
	}

	rows, err := r.db.Query(`
		SELECT id, place_id, original_category, corrected_category, created_at
		FROM user_corrections
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, wrapStorageErr("query corrections", err)
	}
	defer rows.Close()

	var corrections []models.UserCorrection
	for rows.Next() {
		var c models.UserCorrection
		if err := rows.Scan(&c.ID, &c.PlaceID, &c.OriginalCategory, &c.CorrectedCategory, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		corrections = append(corrections, c)
	}

	return corrections, rows.Err()
}
