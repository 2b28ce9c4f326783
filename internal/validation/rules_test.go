package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/spatial"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func closedVisit(entry time.Time, duration time.Duration) models.Visit {
	exit := entry.Add(duration).Unix()
	return models.Visit{ID: "v1", PlaceID: "p1", EntryTime: entry.Unix(), ExitTime: &exit}
}

func TestValidateVisitTooShort(t *testing.T) {
	v := NewDefaultValidator()

	result := v.ValidateVisit(closedVisit(testNow.Add(-time.Hour), 30*time.Second), testNow)
	assert.True(t, result.HasCode(CodeVisitTooShort))
	assert.True(t, result.OK()) // warning, not an error
}

func TestValidateVisitTooLong(t *testing.T) {
	v := NewDefaultValidator()

	result := v.ValidateVisit(closedVisit(testNow.Add(-100*time.Hour), 96*time.Hour), testNow)
	assert.True(t, result.HasCode(CodeVisitTooLong))
	assert.True(t, result.OK())
}

func TestValidateVisitInvalidInterval(t *testing.T) {
	v := NewDefaultValidator()

	result := v.ValidateVisit(closedVisit(testNow.Add(-time.Hour), -10*time.Minute), testNow)
	assert.True(t, result.HasCode(CodeVisitInvalidInterval))
	assert.False(t, result.OK())
}

func TestValidateVisitFutureEntry(t *testing.T) {
	v := NewDefaultValidator()

	result := v.ValidateVisit(closedVisit(testNow.Add(time.Hour), time.Hour), testNow)
	assert.True(t, result.HasCode(CodeVisitFutureEntry))
	assert.False(t, result.OK())

	// Entries within the grace window pass
	result = v.ValidateVisit(closedVisit(testNow.Add(2*time.Minute), time.Hour), testNow)
	assert.False(t, result.HasCode(CodeVisitFutureEntry))
}

func TestValidateVisitOpenVisit(t *testing.T) {
	v := NewDefaultValidator()

	open := models.Visit{ID: "v1", PlaceID: "p1", EntryTime: testNow.Add(-time.Minute).Unix()}
	result := v.ValidateVisit(open, testNow)
	assert.Empty(t, result.Findings)
}

func TestValidateSequenceDuplicateTimestamps(t *testing.T) {
	v := NewDefaultValidator()

	fixes := []models.LocationFix{
		{ID: 1, Latitude: 40.70, Longitude: -74.00, TimestampUTC: 1000},
		{ID: 2, Latitude: 40.70, Longitude: -74.00, TimestampUTC: 1000},
		{ID: 3, Latitude: 40.70, Longitude: -74.00, TimestampUTC: 2000},
	}

	result := v.ValidateSequence(fixes)
	assert.True(t, result.HasCode(CodeSequenceNonMonotonic))
	assert.False(t, result.OK())
}

func TestValidateSequenceImplausibleSpeed(t *testing.T) {
	v := NewDefaultValidator()

	// ~11km jump in 10 seconds
	fixes := []models.LocationFix{
		{ID: 1, Latitude: 40.70, Longitude: -74.00, TimestampUTC: 1000},
		{ID: 2, Latitude: 40.80, Longitude: -74.00, TimestampUTC: 1010},
	}

	result := v.ValidateSequence(fixes)
	assert.True(t, result.HasCode(CodeImplausibleSpeed))
	assert.True(t, result.OK()) // warning severity
}

func TestValidateSequenceSortsBeforeChecking(t *testing.T) {
	v := NewDefaultValidator()

	// Out-of-order input with sane timing must produce no findings
	fixes := []models.LocationFix{
		{ID: 2, Latitude: 40.7001, Longitude: -74.00, TimestampUTC: 2000},
		{ID: 1, Latitude: 40.7000, Longitude: -74.00, TimestampUTC: 1000},
	}

	result := v.ValidateSequence(fixes)
	assert.Empty(t, result.Findings)
}

func TestValidatePlaceProximityTooClose(t *testing.T) {
	v := NewDefaultValidator()

	lat, lon := spatial.DestinationPoint(40.70, -74.00, 90, 5)
	candidate := models.Place{ID: "new", Name: "Coffee Spot", CentroidLat: lat, CentroidLon: lon}
	existing := []models.Place{{ID: "old", Name: "Espresso Bar", CentroidLat: 40.70, CentroidLon: -74.00}}

	result := v.ValidatePlaceProximity(candidate, existing)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, CodePlaceTooClose, result.Findings[0].Code)
	assert.Equal(t, ActionMerge, result.Findings[0].SuggestedAction)
}

func TestValidatePlaceProximityDuplicateByName(t *testing.T) {
	v := NewDefaultValidator()

	lat, lon := spatial.DestinationPoint(40.70, -74.00, 90, 60)
	candidate := models.Place{ID: "new", Name: "Central Library", CentroidLat: lat, CentroidLon: lon}
	existing := []models.Place{{ID: "old", Name: "central   library", CentroidLat: 40.70, CentroidLon: -74.00}}

	result := v.ValidatePlaceProximity(candidate, existing)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, CodePotentialDuplicate, result.Findings[0].Code)
}

func TestValidatePlaceProximityDistinctNames(t *testing.T) {
	v := NewDefaultValidator()

	lat, lon := spatial.DestinationPoint(40.70, -74.00, 90, 60)
	candidate := models.Place{ID: "new", Name: "Blue Bottle", CentroidLat: lat, CentroidLon: lon}
	existing := []models.Place{{ID: "old", Name: "City Gym", CentroidLat: 40.70, CentroidLon: -74.00}}

	assert.Empty(t, v.ValidatePlaceProximity(candidate, existing).Findings)
}

func TestValidatePlaceProximitySkipsSelf(t *testing.T) {
	v := NewDefaultValidator()

	place := models.Place{ID: "same", Name: "Home", CentroidLat: 40.70, CentroidLon: -74.00}
	assert.Empty(t, v.ValidatePlaceProximity(place, []models.Place{place}).Findings)
}

func TestValidateConfigBounds(t *testing.T) {
	v := NewDefaultValidator()

	checks := []BoundCheck{
		{Name: "detection.eps_meters", Value: 50, Min: 10, Max: 200},
		{Name: "detection.min_points", Value: 500, Min: 2, Max: 20},
	}

	result := v.ValidateConfigBounds(checks)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, CodeConfigOutOfRange, result.Findings[0].Code)
	assert.Contains(t, result.Findings[0].Message, "detection.min_points")
	assert.False(t, result.OK())

	// Inclusive boundaries pass
	edge := []BoundCheck{{Name: "x", Value: 200, Min: 10, Max: 200}}
	assert.Empty(t, v.ValidateConfigBounds(edge).Findings)
}

func TestNameSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, NameSimilarity("Central Library", "central   library"))
	assert.Equal(t, 1.0, NameSimilarity("", ""))
	assert.Less(t, NameSimilarity("Blue Bottle", "City Gym"), 0.5)
	assert.Greater(t, NameSimilarity("Starbucks Coffee", "Starbucks Cofee"), 0.9)
}
