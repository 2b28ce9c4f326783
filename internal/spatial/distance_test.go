package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	// One degree of longitude at the equator is ~111.2 km
	d := HaversineDistance(0, 0, 0, 1)
	assert.InDelta(t, 111195, d, 100)

	assert.Zero(t, HaversineDistance(40.7128, -74.0060, 40.7128, -74.0060))
}

func TestDestinationPoint(t *testing.T) {
	lat, lon := DestinationPoint(40.7128, -74.0060, 90, 1000)

	d := HaversineDistance(40.7128, -74.0060, lat, lon)
	assert.InDelta(t, 1000, d, 1)
	// Due-east keeps latitude nearly constant
	assert.InDelta(t, 40.7128, lat, 0.0001)
}

func TestGridIndexNeighbors(t *testing.T) {
	// Three points within 50m of each other and one ~1km away
	lats := []float64{40.70000, 40.70010, 40.70020, 40.71000}
	lons := []float64{-74.00000, -74.00005, -74.00010, -74.00000}

	idx := NewGridIndex(lats, lons, 50)

	assert.Equal(t, []int{0, 1, 2}, idx.Neighbors(0, 50))
	assert.Equal(t, []int{0, 1, 2}, idx.Neighbors(2, 50))
	assert.Equal(t, []int{3}, idx.Neighbors(3, 50))
}

func TestGridIndexNeighborsAcrossLatitudeRows(t *testing.T) {
	// Two fixes 48.9m apart north-south at a large longitude. With a column
	// width derived per point from its own cos(lat), these land in columns
	// two apart and the 3x3 scan misses the pair.
	lats := []float64{35.6800, 35.6800 + 48.9/111320.0}
	lons := []float64{139.7700, 139.7700}

	idx := NewGridIndex(lats, lons, 50)

	assert.Equal(t, []int{0, 1}, idx.Neighbors(0, 50))
	assert.Equal(t, []int{0, 1}, idx.Neighbors(1, 50))
}

func TestGridIndexNeighborsNorthSouthChain(t *testing.T) {
	// A 40m-spaced chain spanning several rows; every link must see its
	// immediate neighbors regardless of where it falls in the grid.
	var lats, lons []float64
	for i := 0; i < 12; i++ {
		lats = append(lats, 35.6800+float64(i)*40.0/111320.0)
		lons = append(lons, 139.7700)
	}

	idx := NewGridIndex(lats, lons, 50)

	for i := 1; i < len(lats)-1; i++ {
		assert.Contains(t, idx.Neighbors(i, 50), i-1)
		assert.Contains(t, idx.Neighbors(i, 50), i+1)
	}
}

func TestGridIndexNeighborsIncludesSelf(t *testing.T) {
	idx := NewGridIndex([]float64{51.5}, []float64{-0.12}, 50)
	assert.Equal(t, []int{0}, idx.Neighbors(0, 50))
}
