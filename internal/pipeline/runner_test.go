package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/places-backend-go/internal/decision"
	"github.com/jengzang/places-backend-go/internal/detection"
	"github.com/jengzang/places-backend-go/internal/learning"
	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/scoring"
	"github.com/jengzang/places-backend-go/internal/validation"
)

const (
	baseLat = 40.70
	baseLon = -74.00
)

// memSource serves a fixed snapshot
type memSource struct {
	fixes []models.LocationFix
}

func (s *memSource) FixesSince(_ context.Context, _ time.Time) ([]models.LocationFix, error) {
	return s.fixes, nil
}

// memPlaceStore records all persistence calls
type memPlaceStore struct {
	places  map[string]*models.Place
	reviews []*models.PlaceReview
	visits  []*models.Visit
	created int
}

func newMemPlaceStore() *memPlaceStore {
	return &memPlaceStore{places: make(map[string]*models.Place)}
}

func (s *memPlaceStore) ListPlaces(_ context.Context, statuses ...models.PlaceStatus) ([]models.Place, error) {
	var out []models.Place
	for _, p := range s.places {
		for _, status := range statuses {
			if p.Status == status {
				out = append(out, *p)
				break
			}
		}
	}
	return out, nil
}

func (s *memPlaceStore) CreatePlace(_ context.Context, place *models.Place) error {
	cp := *place
	s.places[place.ID] = &cp
	s.created++
	return nil
}

func (s *memPlaceStore) CreatePendingPlace(_ context.Context, place *models.Place, review *models.PlaceReview) error {
	cp := *place
	s.places[place.ID] = &cp
	rv := *review
	s.reviews = append(s.reviews, &rv)
	s.created++
	return nil
}

func (s *memPlaceStore) UpdatePlace(_ context.Context, place *models.Place) error {
	if _, ok := s.places[place.ID]; !ok {
		return fmt.Errorf("place not found: %s", place.ID)
	}
	cp := *place
	s.places[place.ID] = &cp
	return nil
}

func (s *memPlaceStore) RecordVisit(_ context.Context, visit *models.Visit) error {
	place, ok := s.places[visit.PlaceID]
	if !ok {
		return fmt.Errorf("place not found: %s", visit.PlaceID)
	}
	cp := *visit
	s.visits = append(s.visits, &cp)
	place.VisitCount++
	return nil
}

// nightFixes builds a dense evening pattern near the base point: five fixes
// between 20:00 and 21:20 UTC on each of four consecutive days
func nightFixes(t *testing.T) []models.LocationFix {
	t.Helper()

	var fixes []models.LocationFix
	start := time.Now().UTC().Truncate(24 * time.Hour).Add(-5 * 24 * time.Hour)
	id := int64(0)
	for day := 0; day < 4; day++ {
		for slot := 0; slot < 5; slot++ {
			id++
			ts := start.Add(time.Duration(day)*24*time.Hour +
				20*time.Hour + time.Duration(slot)*20*time.Minute)
			fixes = append(fixes, models.LocationFix{
				ID:             id,
				Latitude:       baseLat + float64(slot%3)*0.0001,
				Longitude:      baseLon,
				TimestampUTC:   ts.Unix(),
				AccuracyMeters: 15,
				SpeedMps:       -1,
			})
		}
	}
	return fixes
}

func newTestRunner(source LocationSource, store PlaceStore, decisionParams decision.Params) *Runner {
	learner := learning.NewEngine(learning.DefaultParams, nil, nil)
	return NewRunner(
		DefaultRunnerParams,
		detection.NewQualityFilter(detection.DefaultQualityThresholds),
		detection.NewClusterer(detection.DefaultClusterParams),
		detection.NewCandidateBuilder(detection.DefaultCandidateParams),
		scoring.NewScorer(0.5),
		decision.NewEngine(decisionParams, learner),
		validation.NewDefaultValidator(),
		source,
		store,
		nil,
	)
}

func TestRunRoutesStrongPatternToReview(t *testing.T) {
	store := newMemPlaceStore()
	runner := newTestRunner(&memSource{fixes: nightFixes(t)}, store, decision.DefaultParams)

	summary, err := runner.Run(context.Background(), 7*24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 20, summary.TotalFixes)
	assert.Equal(t, 20, summary.FilteredFixes)
	assert.Equal(t, 1, summary.ClusterCount)
	assert.Equal(t, 1, summary.NeedsReview)
	assert.Zero(t, summary.Accepted)
	assert.Zero(t, summary.Rejected)

	// One pending place with its review, committed together
	require.Len(t, store.reviews, 1)
	review := store.reviews[0]
	place := store.places[review.PlaceID]
	require.NotNil(t, place)
	assert.Equal(t, models.PlaceStatusPendingReview, place.Status)
	assert.Equal(t, models.CategoryHome, place.Category)
	assert.InDelta(t, 0.69, place.Confidence, 1e-9)
	assert.Equal(t, models.ReviewStatusPending, review.Status)
	assert.Equal(t, 2, review.Priority) // below 0.7, nudged up for HOME
	assert.InDelta(t, 0.5, review.ConfidenceBreakdown["pattern"], 1e-9)
}

func TestRunAccruesVisitAndPromotesAfterNVisits(t *testing.T) {
	store := newMemPlaceStore()
	store.places["existing"] = &models.Place{
		ID:          "existing",
		Name:        "Detected place",
		Category:    models.CategoryHome,
		CentroidLat: baseLat,
		CentroidLon: baseLon,
		Status:      models.PlaceStatusPendingReview,
		VisitCount:  2,
	}

	params := decision.DefaultParams
	params.Strategy = decision.StrategyAfterNVisits
	runner := newTestRunner(&memSource{fixes: nightFixes(t)}, store, params)

	summary, err := runner.Run(context.Background(), 7*24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.VisitsAccrued)
	assert.Equal(t, 1, summary.Accepted)
	assert.Zero(t, summary.NeedsReview)

	require.Len(t, store.visits, 1)
	assert.Equal(t, "existing", store.visits[0].PlaceID)

	// Third observed visit crosses the threshold: promoted, no new place
	place := store.places["existing"]
	assert.Equal(t, models.PlaceStatusActive, place.Status)
	assert.Equal(t, 3, place.VisitCount)
	assert.Zero(t, store.created)
}

func TestRunMatchedPendingPlaceGetsNoSecondReview(t *testing.T) {
	store := newMemPlaceStore()
	store.places["existing"] = &models.Place{
		ID:          "existing",
		Name:        "Detected place",
		Category:    models.CategoryHome,
		CentroidLat: baseLat,
		CentroidLon: baseLon,
		Status:      models.PlaceStatusPendingReview,
		VisitCount:  1,
	}

	runner := newTestRunner(&memSource{fixes: nightFixes(t)}, store, decision.DefaultParams)

	summary, err := runner.Run(context.Background(), 7*24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.NeedsReview)
	assert.Empty(t, store.reviews) // the matched place already has its review
	assert.Zero(t, store.created)
}

func TestRunDropsCorruptDay(t *testing.T) {
	fixes := nightFixes(t)

	// A day from last week with duplicated timestamps fails sequence
	// validation and is excluded as a whole
	corrupt := time.Now().UTC().Add(-7 * 24 * time.Hour).Truncate(24 * time.Hour).Add(12 * time.Hour)
	for i := 0; i < 3; i++ {
		fixes = append(fixes, models.LocationFix{
			ID:             int64(100 + i),
			Latitude:       41.0,
			Longitude:      -75.0,
			TimestampUTC:   corrupt.Unix(),
			AccuracyMeters: 15,
			SpeedMps:       -1,
		})
	}

	store := newMemPlaceStore()
	runner := newTestRunner(&memSource{fixes: fixes}, store, decision.DefaultParams)

	summary, err := runner.Run(context.Background(), 8*24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 23, summary.TotalFixes)
	assert.Equal(t, 1, summary.DroppedDays)
	assert.Equal(t, 20, summary.FilteredFixes)
	assert.Equal(t, 1, summary.ClusterCount)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := newMemPlaceStore()
	runner := newTestRunner(&memSource{fixes: nightFixes(t)}, store, decision.DefaultParams)

	_, err := runner.Run(ctx, 7*24*time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.reviews)
}

func TestRunEmptySnapshot(t *testing.T) {
	store := newMemPlaceStore()
	runner := newTestRunner(&memSource{}, store, decision.DefaultParams)

	summary, err := runner.Run(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalFixes)
	assert.Zero(t, summary.ClusterCount)
}
