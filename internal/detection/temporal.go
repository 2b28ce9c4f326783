package detection

import (
	"sort"
	"time"

	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/stats"
)

// visitGap is the minimum silence between fixes that separates two visits
const visitGap = 30 * time.Minute

// BuildTemporalProfile summarizes a cluster's visit-time distribution:
// hour-of-day and weekday histograms plus gap-separated dwell intervals.
func BuildTemporalProfile(cluster Cluster) models.TemporalProfile {
	var profile models.TemporalProfile
	if len(cluster.Fixes) == 0 {
		return profile
	}

	ordered := make([]models.LocationFix, len(cluster.Fixes))
	copy(ordered, cluster.Fixes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TimestampUTC < ordered[j].TimestampUTC
	})

	for _, fix := range ordered {
		t := time.Unix(fix.TimestampUTC, 0).UTC()
		profile.HourCounts[t.Hour()]++
		profile.WeekdayCounts[int(t.Weekday())]++
	}
	profile.TotalFixes = len(ordered)

	// Segment into visits on gaps longer than visitGap
	var dwellMinutes []float64
	visitStart := ordered[0].TimestampUTC
	prev := ordered[0].TimestampUTC
	for _, fix := range ordered[1:] {
		if time.Duration(fix.TimestampUTC-prev)*time.Second > visitGap {
			dwellMinutes = append(dwellMinutes, float64(prev-visitStart)/60.0)
			visitStart = fix.TimestampUTC
		}
		prev = fix.TimestampUTC
	}
	dwellMinutes = append(dwellMinutes, float64(prev-visitStart)/60.0)

	profile.VisitCount = len(dwellMinutes)
	profile.MeanDwellMinutes = stats.Mean(dwellMinutes)

	span := ordered[len(ordered)-1].TimestampUTC - ordered[0].TimestampUTC
	profile.SpanDays = float64(span) / 86400.0

	return profile
}
