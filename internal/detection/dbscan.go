package detection

import (
	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/spatial"
)

// ClusterParams holds the DBSCAN tunables
type ClusterParams struct {
	EpsMeters float64 // neighborhood radius, valid range 10-200
	MinPoints int     // minimum neighborhood size (including the point), valid range 2-20
}

// DefaultClusterParams provides the default clustering parameters
var DefaultClusterParams = ClusterParams{
	EpsMeters: 50.0,
	MinPoints: 3,
}

// Cluster is an ordered set of fixes assigned by the clusterer. It exists
// only during a detection run.
type Cluster struct {
	Fixes []models.LocationFix
}

// Clusterer groups fixes into density-based clusters with classic DBSCAN over
// great-circle distance. Noise points belong to no cluster. Given the same
// input order and parameters the output is identical on every run: neighbor
// lookups go through a grid index that returns ascending indices, and
// expansion is breadth-first over a slice queue.
type Clusterer struct {
	params ClusterParams
}

// NewClusterer creates a clusterer with the given parameters
func NewClusterer(params ClusterParams) *Clusterer {
	return &Clusterer{params: params}
}

const (
	labelUnvisited = 0
	labelNoise     = -1
)

// Cluster runs DBSCAN over the fixes and returns clusters in order of their
// first core point's input position.
func (c *Clusterer) Cluster(fixes []models.LocationFix) []Cluster {
	if len(fixes) == 0 {
		return nil
	}

	lats := make([]float64, len(fixes))
	lons := make([]float64, len(fixes))
	for i, fix := range fixes {
		lats[i] = fix.Latitude
		lons[i] = fix.Longitude
	}
	index := spatial.NewGridIndex(lats, lons, c.params.EpsMeters)

	// labels: 0 unvisited, -1 noise, >0 cluster id
	labels := make([]int, len(fixes))
	nextID := 0

	for i := range fixes {
		if labels[i] != labelUnvisited {
			continue
		}

		neighbors := index.Neighbors(i, c.params.EpsMeters)
		if len(neighbors) < c.params.MinPoints {
			labels[i] = labelNoise
			continue
		}

		nextID++
		labels[i] = nextID

		// Grow the cluster by density reachability
		queue := append([]int(nil), neighbors...)
		for qi := 0; qi < len(queue); qi++ {
			j := queue[qi]

			if labels[j] == labelNoise {
				labels[j] = nextID // border point reached from a core point
			}
			if labels[j] != labelUnvisited {
				continue
			}
			labels[j] = nextID

			jNeighbors := index.Neighbors(j, c.params.EpsMeters)
			if len(jNeighbors) >= c.params.MinPoints {
				queue = append(queue, jNeighbors...)
			}
		}
	}

	clusters := make([]Cluster, nextID)
	for i, fix := range fixes {
		if labels[i] > 0 {
			id := labels[i] - 1
			clusters[id].Fixes = append(clusters[id].Fixes, fix)
		}
	}
	return clusters
}
