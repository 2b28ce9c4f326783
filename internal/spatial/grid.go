package spatial

import (
	"math"
	"sort"
)

// GridIndex is a fixed-cell spatial index for radius-bounded neighbor queries.
// Cell size matches the query radius, so a neighbor search only needs to scan
// the 3x3 block of cells around a point. Results are returned as ascending
// point indices to keep callers deterministic regardless of map iteration.
type GridIndex struct {
	lats []float64
	lons []float64

	latDegPerCell float64
	lonDegPerCell float64
	cells         map[gridKey][]int
}

type gridKey struct {
	row int
	col int
}

// NewGridIndex builds an index over parallel lat/lon slices with the given
// cell size in meters. cellSizeM must be positive.
//
// The longitude column width is fixed at index build time from the mean input
// latitude. A per-point cos(lat) would let two points within cellSizeM of each
// other land in non-adjacent columns, and the 3x3 scan in Neighbors would miss
// them.
func NewGridIndex(lats, lons []float64, cellSizeM float64) *GridIndex {
	cosLat := 1.0
	if len(lats) > 0 {
		var sum float64
		for _, lat := range lats {
			sum += lat
		}
		cosLat = math.Cos(sum / float64(len(lats)) * math.Pi / 180)
		if cosLat < 0.01 {
			cosLat = 0.01
		}
	}

	idx := &GridIndex{
		lats:          lats,
		lons:          lons,
		latDegPerCell: cellSizeM / 111320.0,
		lonDegPerCell: cellSizeM / (111320.0 * cosLat),
		cells:         make(map[gridKey][]int),
	}
	for i := range lats {
		key := idx.keyFor(lats[i], lons[i])
		idx.cells[key] = append(idx.cells[key], i)
	}
	return idx
}

// keyFor maps a coordinate to its grid cell
func (g *GridIndex) keyFor(lat, lon float64) gridKey {
	return gridKey{
		row: int(math.Floor(lat / g.latDegPerCell)),
		col: int(math.Floor(lon / g.lonDegPerCell)),
	}
}

// Neighbors returns the indices of all points within radiusM meters of point
// i (including i itself), in ascending index order.
func (g *GridIndex) Neighbors(i int, radiusM float64) []int {
	center := g.keyFor(g.lats[i], g.lons[i])

	var result []int
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			key := gridKey{row: center.row + dr, col: center.col + dc}
			for _, j := range g.cells[key] {
				d := HaversineDistance(g.lats[i], g.lons[i], g.lats[j], g.lons[j])
				if d <= radiusM {
					result = append(result, j)
				}
			}
		}
	}

	sort.Ints(result)
	return result
}
