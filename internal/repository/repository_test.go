package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/places-backend-go/internal/database"
	"github.com/jengzang/places-backend-go/internal/models"
)

func setupDB(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	return &testEnv{
		fixes:  NewFixRepository(db),
		places: NewPlaceRepository(db),
		revs:   NewReviewRepository(db),
		prefs:  NewPreferenceRepository(db),
		runs:   NewDetectionRunRepository(db),
	}
}

type testEnv struct {
	fixes  *FixRepository
	places *PlaceRepository
	revs   *ReviewRepository
	prefs  *PreferenceRepository
	runs   *DetectionRunRepository
}

func samplePlace(id string) *models.Place {
	return &models.Place{
		ID:           id,
		Name:         "Detected place",
		Category:     models.CategoryHome,
		CentroidLat:  40.70,
		CentroidLon:  -74.00,
		RadiusMeters: 25,
		Confidence:   0.69,
		VisitCount:   1,
		Status:       models.PlaceStatusPendingReview,
	}
}

func TestFixRoundTrip(t *testing.T) {
	env := setupDB(t)
	ctx := context.Background()

	fixes := []models.LocationFix{
		{Latitude: 40.70, Longitude: -74.00, TimestampUTC: 2000, AccuracyMeters: 15, SpeedMps: -1},
		{Latitude: 40.71, Longitude: -74.01, TimestampUTC: 1000, AccuracyMeters: 8, SpeedMps: 1.2,
			Activity: &models.DetectedActivity{Type: models.ActivityWalking, Confidence: 0.9}},
	}
	require.NoError(t, env.fixes.InsertFixes(ctx, fixes))

	got, err := env.fixes.FixesSince(ctx, time.Unix(0, 0))
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Ordered by timestamp
	assert.Equal(t, int64(1000), got[0].TimestampUTC)
	require.NotNil(t, got[0].Activity)
	assert.Equal(t, models.ActivityWalking, got[0].Activity.Type)
	assert.Nil(t, got[1].Activity)

	since, err := env.fixes.FixesSince(ctx, time.Unix(1500, 0))
	require.NoError(t, err)
	assert.Len(t, since, 1)
}

func TestCreatePendingPlaceCommitsBothRows(t *testing.T) {
	env := setupDB(t)
	ctx := context.Background()

	place := samplePlace("")
	review := &models.PlaceReview{
		Status:              models.ReviewStatusPending,
		Priority:            2,
		ConfidenceBreakdown: map[string]float64{"pattern": 0.5},
	}
	require.NoError(t, env.places.CreatePendingPlace(ctx, place, review))
	require.NotEmpty(t, place.ID)
	assert.Equal(t, place.ID, review.PlaceID)

	gotReview, err := env.revs.GetReview(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, gotReview.Priority)
	assert.InDelta(t, 0.5, gotReview.ConfidenceBreakdown["pattern"], 1e-9)

	gotPlace, err := env.places.GetPlace(ctx, place.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlaceStatusPendingReview, gotPlace.Status)
}

func TestRecordVisitIncrementsCounter(t *testing.T) {
	env := setupDB(t)
	ctx := context.Background()

	place := samplePlace("")
	require.NoError(t, env.places.CreatePlace(ctx, place))

	exit := int64(5000)
	visit := &models.Visit{PlaceID: place.ID, EntryTime: 1000, ExitTime: &exit}
	require.NoError(t, env.places.RecordVisit(ctx, visit))

	got, err := env.places.GetPlace(ctx, place.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.VisitCount)

	visits, err := env.places.ListVisits(ctx, place.ID)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	require.NotNil(t, visits[0].ExitTime)
	assert.Equal(t, int64(5000), *visits[0].ExitTime)
}

func TestRecordVisitUnknownPlaceRollsBack(t *testing.T) {
	env := setupDB(t)
	ctx := context.Background()

	visit := &models.Visit{PlaceID: "ghost", EntryTime: 1000}
	assert.Error(t, env.places.RecordVisit(ctx, visit))
}

func TestListPlacesByStatus(t *testing.T) {
	env := setupDB(t)
	ctx := context.Background()

	active := samplePlace("")
	active.Status = models.PlaceStatusActive
	require.NoError(t, env.places.CreatePlace(ctx, active))

	pending := samplePlace("")
	require.NoError(t, env.places.CreatePlace(ctx, pending))

	rejected := samplePlace("")
	rejected.Status = models.PlaceStatusRejected
	require.NoError(t, env.places.CreatePlace(ctx, rejected))

	got, err := env.places.ListPlaces(ctx, models.PlaceStatusActive, models.PlaceStatusPendingReview)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	all, err := env.places.ListPlaces(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetPlacesFilterAndPagination(t *testing.T) {
	env := setupDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		p := samplePlace("")
		p.Status = models.PlaceStatusActive
		p.Confidence = 0.5 + float64(i)*0.1
		require.NoError(t, env.places.CreatePlace(ctx, p))
	}

	resp, err := env.places.GetPlaces(ctx, models.PlaceFilter{
		Status:        string(models.PlaceStatusActive),
		MinConfidence: 0.65,
		Page:          1,
		PageSize:      2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 2, resp.TotalPages)
	// Highest confidence first
	assert.InDelta(t, 0.9, resp.Data[0].Confidence, 1e-9)
}

func TestDeletePlaceCascades(t *testing.T) {
	env := setupDB(t)
	ctx := context.Background()

	place := samplePlace("")
	review := &models.PlaceReview{Status: models.ReviewStatusPending, Priority: 3}
	require.NoError(t, env.places.CreatePendingPlace(ctx, place, review))

	require.NoError(t, env.places.DeletePlace(ctx, place.ID))

	_, err := env.places.GetPlace(ctx, place.ID)
	assert.Error(t, err)
	_, err = env.revs.GetReview(ctx, review.ID)
	assert.Error(t, err)

	assert.Error(t, env.places.DeletePlace(ctx, place.ID))
}

func TestPendingReviewQueueOrdering(t *testing.T) {
	env := setupDB(t)
	ctx := context.Background()

	priorities := []int{4, 1, 3}
	for _, priority := range priorities {
		place := samplePlace("")
		review := &models.PlaceReview{Status: models.ReviewStatusPending, Priority: priority}
		require.NoError(t, env.places.CreatePendingPlace(ctx, place, review))
	}

	pending, err := env.revs.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, 1, pending[0].Priority)
	assert.Equal(t, 3, pending[1].Priority)
	assert.Equal(t, 4, pending[2].Priority)
}

func TestUpdateReviewResolution(t *testing.T) {
	env := setupDB(t)
	ctx := context.Background()

	place := samplePlace("")
	review := &models.PlaceReview{Status: models.ReviewStatusPending, Priority: 2}
	require.NoError(t, env.places.CreatePendingPlace(ctx, place, review))

	review.Status = models.ReviewStatusApproved
	review.ResolvedAt = time.Now().Unix()
	require.NoError(t, env.revs.UpdateReview(ctx, review))

	got, err := env.revs.GetReview(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusApproved, got.Status)
	assert.NotZero(t, got.ResolvedAt)

	pending, err := env.revs.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPreferenceUpsertAndLoad(t *testing.T) {
	env := setupDB(t)

	pref := models.CategoryPreference{Category: models.CategoryGym, Score: 0.3, AcceptanceCount: 3}
	require.NoError(t, env.prefs.UpsertPreference(pref))

	pref.Score = 0.4
	pref.AcceptanceCount = 4
	require.NoError(t, env.prefs.UpsertPreference(pref))

	loaded, err := env.prefs.LoadPreferences()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.InDelta(t, 0.4, loaded[0].Score, 1e-9)
	assert.Equal(t, 4, loaded[0].AcceptanceCount)
}

func TestCorrectionLogAppendOnly(t *testing.T) {
	env := setupDB(t)

	first := models.UserCorrection{PlaceID: "p1", OriginalCategory: models.CategoryWork, CorrectedCategory: models.CategoryEducation, Timestamp: 100}
	second := models.UserCorrection{PlaceID: "p2", OriginalCategory: models.CategoryGym, CorrectedCategory: models.CategoryShopping, Timestamp: 200}
	require.NoError(t, env.prefs.AppendCorrection(first))
	require.NoError(t, env.prefs.AppendCorrection(second))

	got, err := env.prefs.ListCorrections(10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Newest first
	assert.Equal(t, "p2", got[0].PlaceID)
	assert.Equal(t, models.CategoryEducation, got[1].CorrectedCategory)
}

func TestDetectionRunLifecycle(t *testing.T) {
	env := setupDB(t)
	ctx := context.Background()

	id, err := env.runs.Create(ctx, 72)
	require.NoError(t, err)

	run, err := env.runs.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusPending, run.Status)
	assert.Equal(t, 72, run.LookbackHours)
	assert.False(t, run.IsTerminal())

	require.NoError(t, env.runs.MarkRunning(ctx, id))
	require.NoError(t, env.runs.UpdateCounts(ctx, id, &models.DetectionRun{
		TotalFixes: 20, FilteredFixes: 20, ClusterCount: 1, ReviewCount: 1, ProgressPercent: 100,
	}))
	require.NoError(t, env.runs.MarkCompleted(ctx, id, `{"clusterCount":1}`))

	run, err = env.runs.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, run.Status)
	assert.Equal(t, 1, run.ClusterCount)
	assert.True(t, run.IsTerminal())
	require.NotNil(t, run.CompletedAt)
}

func TestDetectionRunFailure(t *testing.T) {
	env := setupDB(t)
	ctx := context.Background()

	id, err := env.runs.Create(ctx, 24)
	require.NoError(t, err)
	require.NoError(t, env.runs.MarkFailed(ctx, id, "snapshot unavailable"))

	run, err := env.runs.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusFailed, run.Status)
	assert.Equal(t, "snapshot unavailable", run.ErrorMessage)
}
