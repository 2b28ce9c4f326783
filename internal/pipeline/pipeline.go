package pipeline

import (
	"context"
	"time"

	"github.com/jengzang/places-backend-go/internal/models"
)

// LocationSource yields a bounded, time-ordered snapshot of fixes for a
// lookback window. The pipeline treats the result as read-only.
type LocationSource interface {
	FixesSince(ctx context.Context, since time.Time) ([]models.LocationFix, error)
}

// PlaceStore is the pipeline's only means of durability. CreatePlace and
// CreatePendingPlace must each commit as a single unit so a cancelled run
// never leaves a half-written candidate behind.
type PlaceStore interface {
	ListPlaces(ctx context.Context, statuses ...models.PlaceStatus) ([]models.Place, error)
	CreatePlace(ctx context.Context, place *models.Place) error
	CreatePendingPlace(ctx context.Context, place *models.Place, review *models.PlaceReview) error
	UpdatePlace(ctx context.Context, place *models.Place) error
	RecordVisit(ctx context.Context, visit *models.Visit) error
}

// Enricher is the optional reverse-geocoding collaborator. Failures must be
// treated as absence of signal, never as pipeline failure.
type Enricher interface {
	Lookup(ctx context.Context, lat, lon float64) (*models.EnrichmentResult, error)
}

// Summary reports what one detection run did
type Summary struct {
	TotalFixes    int `json:"totalFixes"`
	DroppedDays   int `json:"droppedDays"`
	FilteredFixes int `json:"filteredFixes"`
	ClusterCount  int `json:"clusterCount"`
	Accepted      int `json:"accepted"`
	NeedsReview   int `json:"needsReview"`
	Rejected      int `json:"rejected"`
	VisitsAccrued int `json:"visitsAccrued"`
}
