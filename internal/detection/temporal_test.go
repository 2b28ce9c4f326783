package detection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jengzang/places-backend-go/internal/models"
)

func tsAt(day int, hour, minute int) int64 {
	return time.Date(2026, 3, 2+day, hour, minute, 0, 0, time.UTC).Unix()
}

func TestBuildTemporalProfileHistograms(t *testing.T) {
	cluster := Cluster{Fixes: []models.LocationFix{
		{TimestampUTC: tsAt(0, 20, 0)},
		{TimestampUTC: tsAt(0, 20, 10)},
		{TimestampUTC: tsAt(0, 21, 0)},
	}}

	profile := BuildTemporalProfile(cluster)
	assert.Equal(t, 3, profile.TotalFixes)
	assert.Equal(t, 2, profile.HourCounts[20])
	assert.Equal(t, 1, profile.HourCounts[21])
	// 2026-03-02 is a Monday
	assert.Equal(t, 3, profile.WeekdayCounts[1])
}

func TestBuildTemporalProfileVisitSegmentation(t *testing.T) {
	// Two dwells on the same day separated by a 5 hour gap
	cluster := Cluster{Fixes: []models.LocationFix{
		{TimestampUTC: tsAt(0, 8, 0)},
		{TimestampUTC: tsAt(0, 8, 20)},
		{TimestampUTC: tsAt(0, 8, 40)},
		{TimestampUTC: tsAt(0, 14, 0)},
		{TimestampUTC: tsAt(0, 14, 30)},
	}}

	profile := BuildTemporalProfile(cluster)
	assert.Equal(t, 2, profile.VisitCount)
	// Dwells are 40 and 30 minutes
	assert.InDelta(t, 35, profile.MeanDwellMinutes, 1e-9)
}

func TestBuildTemporalProfileSpanDays(t *testing.T) {
	cluster := Cluster{Fixes: []models.LocationFix{
		{TimestampUTC: tsAt(3, 12, 0)}, // unsorted input is fine
		{TimestampUTC: tsAt(0, 12, 0)},
	}}

	profile := BuildTemporalProfile(cluster)
	assert.InDelta(t, 3.0, profile.SpanDays, 1e-9)
	assert.Equal(t, 2, profile.VisitCount)
}

func TestBuildTemporalProfileEmpty(t *testing.T) {
	profile := BuildTemporalProfile(Cluster{})
	assert.Zero(t, profile.TotalFixes)
	assert.Zero(t, profile.VisitCount)
}

func TestHourFractionWrapsMidnight(t *testing.T) {
	var profile models.TemporalProfile
	profile.TotalFixes = 4
	profile.HourCounts[23] = 2
	profile.HourCounts[3] = 1
	profile.HourCounts[12] = 1

	assert.InDelta(t, 0.75, profile.HourFraction(18, 8), 1e-9)
	assert.InDelta(t, 0.25, profile.HourFraction(9, 17), 1e-9)
}
