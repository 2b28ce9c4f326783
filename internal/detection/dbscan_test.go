package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/places-backend-go/internal/models"
)

// fixAt builds a fix at a small offset (in ~11m units of latitude) from a base point
func fixAt(id int64, baseLat, baseLon float64, latSteps, lonSteps int) models.LocationFix {
	return models.LocationFix{
		ID:             id,
		Latitude:       baseLat + float64(latSteps)*0.0001,
		Longitude:      baseLon + float64(lonSteps)*0.0001,
		TimestampUTC:   1700000000 + id*60,
		AccuracyMeters: 10,
		SpeedMps:       -1,
	}
}

func TestClusterTwoGroupsPlusNoise(t *testing.T) {
	c := NewClusterer(DefaultClusterParams)

	fixes := []models.LocationFix{
		// Group A near (40.70, -74.00)
		fixAt(1, 40.70, -74.00, 0, 0),
		fixAt(2, 40.70, -74.00, 1, 0),
		fixAt(3, 40.70, -74.00, 0, 1),
		fixAt(4, 40.70, -74.00, 1, 1),
		// Group B ~1.1km north
		fixAt(5, 40.71, -74.00, 0, 0),
		fixAt(6, 40.71, -74.00, 1, 0),
		fixAt(7, 40.71, -74.00, 0, 1),
		// Lone point far away never reaches MinPoints
		fixAt(8, 40.80, -74.00, 0, 0),
	}

	clusters := c.Cluster(fixes)
	require.Len(t, clusters, 2)
	assert.Len(t, clusters[0].Fixes, 4)
	assert.Len(t, clusters[1].Fixes, 3)
	assert.Equal(t, int64(1), clusters[0].Fixes[0].ID)
	assert.Equal(t, int64(5), clusters[1].Fixes[0].ID)
}

func TestClusterBelowMinPointsIsNoise(t *testing.T) {
	c := NewClusterer(ClusterParams{EpsMeters: 50, MinPoints: 3})

	fixes := []models.LocationFix{
		fixAt(1, 40.70, -74.00, 0, 0),
		fixAt(2, 40.70, -74.00, 1, 0),
	}

	assert.Empty(t, c.Cluster(fixes))
}

func TestClusterDeterministic(t *testing.T) {
	c := NewClusterer(DefaultClusterParams)

	var fixes []models.LocationFix
	for i := 0; i < 40; i++ {
		fixes = append(fixes, fixAt(int64(i+1), 40.70, -74.00, i%4, i%3))
	}
	for i := 0; i < 20; i++ {
		fixes = append(fixes, fixAt(int64(i+41), 40.72, -74.00, i%3, i%2))
	}

	first := c.Cluster(fixes)
	for run := 0; run < 5; run++ {
		assert.Equal(t, first, c.Cluster(fixes))
	}
}

func TestClusterEmptyInput(t *testing.T) {
	c := NewClusterer(DefaultClusterParams)
	assert.Nil(t, c.Cluster(nil))
}
