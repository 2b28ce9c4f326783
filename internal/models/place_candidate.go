package models

// PlaceCandidate is the intermediate product of one cluster, consumed by
// scoring and decisioning. It exists only during a detection run.
type PlaceCandidate struct {
	CentroidLat   float64 `json:"centroidLat"`
	CentroidLon   float64 `json:"centroidLon"`
	RadiusMeters  float64 `json:"radiusMeters"` // always > 0
	PointCount    int     `json:"pointCount"`
	RawConfidence float64 `json:"rawConfidence"` // 0.0 to 1.0, from density and accuracy tightness

	MeanAccuracyM float64 `json:"meanAccuracyM"`
	FirstSeenTS   int64   `json:"firstSeenTs"`
	LastSeenTS    int64   `json:"lastSeenTs"`
}

// TemporalProfile summarizes the visit-time distribution of a cluster.
// All category scoring functions operate on this shape only.
type TemporalProfile struct {
	HourCounts    [24]int // fixes per hour-of-day (UTC)
	WeekdayCounts [7]int  // fixes per weekday, Sunday = 0
	TotalFixes    int

	VisitCount       int     // distinct dwell intervals (gap-separated)
	MeanDwellMinutes float64 // mean dwell duration per visit
	SpanDays         float64 // days between first and last fix
}

// HourFraction returns the fraction of fixes whose hour-of-day lies in
// [from, to). Ranges wrapping midnight (from > to) are supported.
func (p TemporalProfile) HourFraction(from, to int) float64 {
	if p.TotalFixes == 0 {
		return 0
	}
	count := 0
	for h := 0; h < 24; h++ {
		inRange := false
		if from <= to {
			inRange = h >= from && h < to
		} else {
			inRange = h >= from || h < to
		}
		if inRange {
			count += p.HourCounts[h]
		}
	}
	return float64(count) / float64(p.TotalFixes)
}

// WeekdayFraction returns the fraction of fixes that fall on Monday-Friday
func (p TemporalProfile) WeekdayFraction() float64 {
	if p.TotalFixes == 0 {
		return 0
	}
	count := 0
	for d := 1; d <= 5; d++ {
		count += p.WeekdayCounts[d]
	}
	return float64(count) / float64(p.TotalFixes)
}
