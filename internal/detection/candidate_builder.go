package detection

import (
	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/spatial"
	"github.com/jengzang/places-backend-go/internal/stats"
)

// CandidateParams holds the tunables for place candidate construction
type CandidateParams struct {
	RadiusPercentile float64 // percentile of point-to-centroid distances used as radius
	MinRadiusMeters  float64 // radius floor against near-duplicate GPS points
}

// DefaultCandidateParams provides the default candidate builder parameters
var DefaultCandidateParams = CandidateParams{
	RadiusPercentile: 90.0,
	MinRadiusMeters:  15.0,
}

// CandidateBuilder derives one PlaceCandidate per cluster
type CandidateBuilder struct {
	params CandidateParams
}

// NewCandidateBuilder creates a candidate builder with the given parameters
func NewCandidateBuilder(params CandidateParams) *CandidateBuilder {
	return &CandidateBuilder{params: params}
}

// Build computes centroid, radius, and raw confidence for a cluster.
// Returns nil for an empty cluster.
func (b *CandidateBuilder) Build(cluster Cluster) *models.PlaceCandidate {
	n := len(cluster.Fixes)
	if n == 0 {
		return nil
	}

	// Arithmetic-mean centroid is a fine approximation at place scale
	var sumLat, sumLon float64
	accuracies := make([]float64, 0, n)
	firstTS := cluster.Fixes[0].TimestampUTC
	lastTS := cluster.Fixes[0].TimestampUTC
	for _, fix := range cluster.Fixes {
		sumLat += fix.Latitude
		sumLon += fix.Longitude
		accuracies = append(accuracies, fix.AccuracyMeters)
		if fix.TimestampUTC < firstTS {
			firstTS = fix.TimestampUTC
		}
		if fix.TimestampUTC > lastTS {
			lastTS = fix.TimestampUTC
		}
	}
	centroidLat := sumLat / float64(n)
	centroidLon := sumLon / float64(n)
	meanAccuracy := stats.Mean(accuracies)

	distances := make([]float64, n)
	for i, fix := range cluster.Fixes {
		distances[i] = spatial.HaversineDistance(centroidLat, centroidLon, fix.Latitude, fix.Longitude)
	}

	radius := stats.Percentile(distances, b.params.RadiusPercentile)
	if radius < b.params.MinRadiusMeters {
		radius = b.params.MinRadiusMeters
	}

	return &models.PlaceCandidate{
		CentroidLat:   centroidLat,
		CentroidLon:   centroidLon,
		RadiusMeters:  radius,
		PointCount:    n,
		RawConfidence: rawConfidence(n, meanAccuracy),
		MeanAccuracyM: meanAccuracy,
		FirstSeenTS:   firstTS,
		LastSeenTS:    lastTS,
	}
}

// rawConfidence combines point density and accuracy tightness into [0,1].
// More points and tighter accuracy both raise confidence.
func rawConfidence(pointCount int, meanAccuracyM float64) float64 {
	density := float64(pointCount) / 50.0
	if density > 0.5 {
		density = 0.5
	}

	tightness := 0.0
	switch {
	case meanAccuracyM <= 10:
		tightness = 0.3
	case meanAccuracyM <= 25:
		tightness = 0.2
	case meanAccuracyM <= 50:
		tightness = 0.1
	}

	confidence := 0.2 + density + tightness
	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence < 0.0 {
		confidence = 0.0
	}
	return confidence
}
