package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/places-backend-go/internal/database"
	"github.com/jengzang/places-backend-go/internal/models"
)

// PlaceRepository handles database operations for places, visits and the
// reviews created alongside pending places
type PlaceRepository struct {
	db *sql.DB
}

// NewPlaceRepository creates a new place repository
func NewPlaceRepository(db *sql.DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

const placeColumns = "id, name, category, centroid_lat, centroid_lon, radius_meters, confidence, visit_count, status, created_at, updated_at"

func scanPlace(scanner interface{ Scan(...interface{}) error }) (*models.Place, error) {
	var place models.Place
	if err := scanner.Scan(&place.ID, &place.Name, &place.Category, &place.CentroidLat,
		&place.CentroidLon, &place.RadiusMeters, &place.Confidence, &place.VisitCount,
		&place.Status, &place.CreatedAt, &place.UpdatedAt); err != nil {
		return nil, err
	}
	return &place, nil
}

// ListPlaces returns all places in the given statuses, ordered by creation.
// With no statuses it returns everything.
func (r *PlaceRepository) ListPlaces(ctx context.Context, statuses ...models.PlaceStatus) ([]models.Place, error) {
	query := "SELECT " + placeColumns + " FROM places"
	var args []interface{}

	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, s := range statuses {
			placeholders[i] = "?"
			args = append(args, string(s))
		}
		query += " WHERE status IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY created_at, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapStorageErr("query places", err)
	}
	defer rows.Close()

	var places []models.Place
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, *place)
	}

	return places, rows.Err()
}

// GetPlaces returns a filtered, paginated page of places
func (r *PlaceRepository) GetPlaces(ctx context.Context, filter models.PlaceFilter) (*models.PlacesResponse, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.MinConfidence > 0 {
		conditions = append(conditions, "confidence >= ?")
		args = append(args, filter.MinConfidence)
	}
	if filter.MinVisits > 0 {
		conditions = append(conditions, "visit_count >= ?")
		args = append(args, filter.MinVisits)
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM places WHERE " + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, wrapStorageErr("count places", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 100
	}
	if pageSize > 1000 {
		pageSize = 1000
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(
		"SELECT %s FROM places WHERE %s ORDER BY confidence DESC, created_at LIMIT ? OFFSET ?",
		placeColumns, whereClause,
	)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapStorageErr("query places page", err)
	}
	defer rows.Close()

	places := make([]models.Place, 0, pageSize)
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, *place)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &models.PlacesResponse{
		Data:       places,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// GetPlace returns one place by id
func (r *PlaceRepository) GetPlace(ctx context.Context, id string) (*models.Place, error) {
	query := "SELECT " + placeColumns + " FROM places WHERE id = ?"
	place, err := scanPlace(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("place not found: %s", id)
	}
	if err != nil {
		return nil, wrapStorageErr("query place", err)
	}
	return place, nil
}

// CreatePlace inserts a new place. A zero ID is assigned; timestamps are set
// to now.
func (r *PlaceRepository) CreatePlace(ctx context.Context, place *models.Place) error {
	prepareForInsert(place)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO places (id, name, category, centroid_lat, centroid_lon, radius_meters, confidence, visit_count, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, place.ID, place.Name, place.Category, place.CentroidLat, place.CentroidLon,
		place.RadiusMeters, place.Confidence, place.VisitCount, place.Status,
		place.CreatedAt, place.UpdatedAt)
	if err != nil {
		return wrapStorageErr("insert place", err)
	}
	return nil
}

// CreatePendingPlace inserts a place and its pending review as one unit.
// Either both rows exist afterwards or neither does.
func (r *PlaceRepository) CreatePendingPlace(ctx context.Context, place *models.Place, review *models.PlaceReview) error {
	prepareForInsert(place)

	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	review.PlaceID = place.ID
	if review.CreatedAt == 0 {
		review.CreatedAt = time.Now().Unix()
	}

	breakdownJSON, err := json.Marshal(review.ConfidenceBreakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal confidence breakdown: %w", err)
	}

	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO places (id, name, category, centroid_lat, centroid_lon, radius_meters, confidence, visit_count, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, place.ID, place.Name, place.Category, place.CentroidLat, place.CentroidLon,
			place.RadiusMeters, place.Confidence, place.VisitCount, place.Status,
			place.CreatedAt, place.UpdatedAt); err != nil {
			return wrapStorageErr("insert pending place", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO place_reviews (id, place_id, status, priority, breakdown_json, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, review.ID, review.PlaceID, review.Status, review.Priority,
			string(breakdownJSON), review.CreatedAt); err != nil {
			return wrapStorageErr("insert place review", err)
		}

		return nil
	})
}

// UpdatePlace persists all mutable fields of an existing place
func (r *PlaceRepository) UpdatePlace(ctx context.Context, place *models.Place) error {
	place.UpdatedAt = time.Now().Unix()

	result, err := r.db.ExecContext(ctx, `
		UPDATE places
		SET name = ?, category = ?, centroid_lat = ?, centroid_lon = ?, radius_meters = ?,
		    confidence = ?, visit_count = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, place.Name, place.Category, place.CentroidLat, place.CentroidLon, place.RadiusMeters,
		place.Confidence, place.VisitCount, place.Status, place.UpdatedAt, place.ID)
	if err != nil {
		return wrapStorageErr("update place", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("place not found: %s", place.ID)
	}
	return nil
}

// DeletePlace removes a place and, via cascade, its visits and reviews
func (r *PlaceRepository) DeletePlace(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM places WHERE id = ?", id)
	if err != nil {
		return wrapStorageErr("delete place", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("place not found: %s", id)
	}
	return nil
}

// RecordVisit inserts a visit and bumps the place's visit counter in the
// same transaction
func (r *PlaceRepository) RecordVisit(ctx context.Context, visit *models.Visit) error {
	if visit.ID == "" {
		visit.ID = uuid.NewString()
	}

	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO visits (id, place_id, entry_time, exit_time)
			VALUES (?, ?, ?, ?)
		`, visit.ID, visit.PlaceID, visit.EntryTime, visit.ExitTime); err != nil {
			return wrapStorageErr("insert visit", err)
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE places SET visit_count = visit_count + 1, updated_at = ? WHERE id = ?
		`, time.Now().Unix(), visit.PlaceID)
		if err != nil {
			return wrapStorageErr("increment visit count", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("place not found: %s", visit.PlaceID)
		}
		return nil
	})
}

// ListVisits returns all visits for a place, oldest first
func (r *PlaceRepository) ListVisits(ctx context.Context, placeID string) ([]models.Visit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, place_id, entry_time, exit_time
		FROM visits
		WHERE place_id = ?
		ORDER BY entry_time, id
	`, placeID)
	if err != nil {
		return nil, wrapStorageErr("query visits", err)
	}
	defer rows.Close()

	var visits []models.Visit
	for rows.Next() {
		var visit models.Visit
		var exitTime sql.NullInt64
		if err := rows.Scan(&visit.ID, &visit.PlaceID, &visit.EntryTime, &exitTime); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		if exitTime.Valid {
			visit.ExitTime = &exitTime.Int64
		}
		visits = append(visits, visit)
	}

	return visits, rows.Err()
}

// prepareForInsert assigns an id and timestamps if not already set
func prepareForInsert(place *models.Place) {
	if place.ID == "" {
		place.ID = uuid.NewString()
	}
	now := time.Now().Unix()
	if place.CreatedAt == 0 {
		place.CreatedAt = now
	}
	place.UpdatedAt = now
}
