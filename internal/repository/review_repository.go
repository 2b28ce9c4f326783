package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jengzang/places-backend-go/internal/models"
)

// ReviewRepository handles database operations for place reviews
type ReviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = "id, place_id, status, priority, breakdown_json, created_at, resolved_at"

func scanReview(scanner interface{ Scan(...interface{}) error }) (*models.PlaceReview, error) {
	var review models.PlaceReview
	var breakdownJSON sql.NullString
	var resolvedAt sql.NullInt64

	if err := scanner.Scan(&review.ID, &review.PlaceID, &review.Status, &review.Priority,
		&breakdownJSON, &review.CreatedAt, &resolvedAt); err != nil {
		return nil, err
	}

	if breakdownJSON.Valid && breakdownJSON.String != "" {
		if err := json.Unmarshal([]byte(breakdownJSON.String), &review.ConfidenceBreakdown); err != nil {
			return nil, fmt.Errorf("failed to unmarshal confidence breakdown: %w", err)
		}
	}
	if resolvedAt.Valid {
		review.ResolvedAt = resolvedAt.Int64
	}
	return &review, nil
}

// GetReview returns one review by id
func (r *ReviewRepository) GetReview(ctx context.Context, id string) (*models.PlaceReview, error) {
	query := "SELECT " + reviewColumns + " FROM place_reviews WHERE id = ?"
	review, err := scanReview(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("review not found: %s", id)
	}
	if err != nil {
		return nil, wrapStorageErr("query review", err)
	}
	return review, nil
}

// GetReviewForPlace returns the review attached to a place, if any
func (r *ReviewRepository) GetReviewForPlace(ctx context.Context, placeID string) (*models.PlaceReview, error) {
	query := "SELECT " + reviewColumns + " FROM place_reviews WHERE place_id = ? ORDER BY created_at DESC LIMIT 1"
	review, err := scanReview(r.db.QueryRowContext(ctx, query, placeID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no review for place: %s", placeID)
	}
	if err != nil {
		return nil, wrapStorageErr("query review for place", err)
	}
	return review, nil
}

// ListPending returns pending reviews ordered by priority (1 first), then age
func (r *ReviewRepository) ListPending(ctx context.Context, limit int) ([]models.PlaceReview, error) {
	if limit < 1 {
		limit = 100
	}

	query := "SELECT " + reviewColumns + ` FROM place_reviews
		WHERE status = ?
		ORDER BY priority, created_at
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, models.ReviewStatusPending, limit)
	if err != nil {
		return nil, wrapStorageErr("query pending reviews", err)
	}
	defer rows.Close()

	var reviews []models.PlaceReview
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, *review)
	}

	return reviews, rows.Err()
}

// UpdateReview persists status, priority and resolution time
func (r *ReviewRepository) UpdateReview(ctx context.Context, review *models.PlaceReview) error {
	var resolvedAt interface{}
	if review.ResolvedAt != 0 {
		resolvedAt = review.ResolvedAt
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE place_reviews
		SET status = ?, priority = ?, resolved_at = ?
		WHERE id = ?
	`, review.Status, review.Priority, resolvedAt, review.ID)
	if err != nil {
		return wrapStorageErr("update review", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("review not found: %s", review.ID)
	}
	return nil
}
