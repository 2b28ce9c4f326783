package service

import (
	"context"
	"fmt"

	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/repository"
	"github.com/jengzang/places-backend-go/internal/validation"
)

// PlaceService handles business logic for places and visits
type PlaceService struct {
	places *repository.PlaceRepository
	fixes  *repository.FixRepository
}

// NewPlaceService creates a new place service
func NewPlaceService(places *repository.PlaceRepository, fixes *repository.FixRepository) *PlaceService {
	return &PlaceService{places: places, fixes: fixes}
}

// GetPlaces retrieves places with filtering and pagination
func (s *PlaceService) GetPlaces(ctx context.Context, filter models.PlaceFilter) (*models.PlacesResponse, error) {
	return s.places.GetPlaces(ctx, filter)
}

// GetPlaceByID retrieves a single place
func (s *PlaceService) GetPlaceByID(ctx context.Context, id string) (*models.Place, error) {
	return s.places.GetPlace(ctx, id)
}

// DeletePlace removes a place and its visits and reviews
func (s *PlaceService) DeletePlace(ctx context.Context, id string) error {
	return s.places.DeletePlace(ctx, id)
}

// GetVisits retrieves all visits for a place
func (s *PlaceService) GetVisits(ctx context.Context, placeID string) ([]models.Visit, error) {
	if _, err := s.places.GetPlace(ctx, placeID); err != nil {
		return nil, err
	}
	return s.places.ListVisits(ctx, placeID)
}

// IngestFixes validates and stores a batch of raw location fixes. Fixes with
// out-of-range coordinates or missing accuracy are rejected as a batch.
func (s *PlaceService) IngestFixes(ctx context.Context, fixes []models.LocationFix) (int, error) {
	if len(fixes) == 0 {
		return 0, fmt.Errorf("empty fix batch")
	}

	for i, fix := range fixes {
		if fix.Latitude < -90 || fix.Latitude > 90 || fix.Longitude < -180 || fix.Longitude > 180 {
			return 0, fmt.Errorf("fix %d has invalid coordinates (%f, %f)", i, fix.Latitude, fix.Longitude)
		}
		if fix.AccuracyMeters <= 0 {
			return 0, fmt.Errorf("fix %d has non-positive accuracy %f", i, fix.AccuracyMeters)
		}
		if fix.TimestampUTC <= 0 {
			return 0, fmt.Errorf("fix %d has invalid timestamp %d", i, fix.TimestampUTC)
		}
	}

	if err := s.fixes.InsertFixes(ctx, fixes); err != nil {
		return 0, fmt.Errorf("failed to store fixes: %w", err)
	}
	return len(fixes), nil
}

// CheckProximity reports validation findings for a hypothetical place at the
// given position against all active places
func (s *PlaceService) CheckProximity(ctx context.Context, validator *validation.Validator, candidate models.Place) (validation.Result, error) {
	existing, err := s.places.ListPlaces(ctx, models.PlaceStatusActive)
	if err != nil {
		return validation.Result{}, err
	}
	return validator.ValidatePlaceProximity(candidate, existing), nil
}
