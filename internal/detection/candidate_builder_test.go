package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/places-backend-go/internal/models"
)

func TestBuildEmptyCluster(t *testing.T) {
	b := NewCandidateBuilder(DefaultCandidateParams)
	assert.Nil(t, b.Build(Cluster{}))
}

func TestBuildCentroidAndTimestamps(t *testing.T) {
	b := NewCandidateBuilder(DefaultCandidateParams)

	cluster := Cluster{Fixes: []models.LocationFix{
		{Latitude: 40.70, Longitude: -74.00, TimestampUTC: 2000, AccuracyMeters: 10},
		{Latitude: 40.71, Longitude: -74.01, TimestampUTC: 1000, AccuracyMeters: 20},
	}}

	candidate := b.Build(cluster)
	require.NotNil(t, candidate)
	assert.InDelta(t, 40.705, candidate.CentroidLat, 1e-9)
	assert.InDelta(t, -74.005, candidate.CentroidLon, 1e-9)
	assert.Equal(t, int64(1000), candidate.FirstSeenTS)
	assert.Equal(t, int64(2000), candidate.LastSeenTS)
	assert.Equal(t, 2, candidate.PointCount)
	assert.InDelta(t, 15, candidate.MeanAccuracyM, 1e-9)
}

func TestBuildRadiusFloor(t *testing.T) {
	b := NewCandidateBuilder(DefaultCandidateParams)

	// Identical coordinates would give a zero radius without the floor
	fix := models.LocationFix{Latitude: 40.70, Longitude: -74.00, TimestampUTC: 1000, AccuracyMeters: 10}
	cluster := Cluster{Fixes: []models.LocationFix{fix, fix, fix}}

	candidate := b.Build(cluster)
	require.NotNil(t, candidate)
	assert.Equal(t, DefaultCandidateParams.MinRadiusMeters, candidate.RadiusMeters)
}

func TestRawConfidence(t *testing.T) {
	// 20 points at 15m accuracy: 0.2 base + 0.4 density + 0.2 tightness
	assert.InDelta(t, 0.8, rawConfidence(20, 15), 1e-9)

	// Density saturates at 50 points
	assert.Equal(t, rawConfidence(50, 15), rawConfidence(500, 15))

	// Loose accuracy earns no tightness bonus
	assert.InDelta(t, 0.2+0.1, rawConfidence(5, 80), 1e-9)

	// Never exceeds 1
	assert.LessOrEqual(t, rawConfidence(1000, 1), 1.0)
}
