package detection

import (
	"fmt"

	"github.com/jengzang/places-backend-go/internal/models"
)

// QualityThresholds defines configurable thresholds for location quality filtering
type QualityThresholds struct {
	MaxAccuracyM         float64 // fixes with worse (larger) accuracy are dropped
	MaxSpeedMPS          float64 // fixes moving faster are dropped
	VehicleConfidenceMin float64 // vehicular activity at or above this confidence is dropped
}

// DefaultQualityThresholds provides the default filter thresholds
var DefaultQualityThresholds = QualityThresholds{
	MaxAccuracyM:         100.0,
	MaxSpeedMPS:          42.0, // ~150 km/h
	VehicleConfidenceMin: 0.75,
}

// QualityFilter drops unreliable fixes before clustering. It preserves input
// order and has no side effects.
type QualityFilter struct {
	thresholds QualityThresholds
}

// NewQualityFilter creates a quality filter with the given thresholds
func NewQualityFilter(thresholds QualityThresholds) *QualityFilter {
	return &QualityFilter{thresholds: thresholds}
}

// Filter returns the fixes that pass all quality rules, in input order.
// Malformed fixes (negative accuracy) produce a data-quality error for the
// caller to report; the remaining fixes are still returned.
func (f *QualityFilter) Filter(fixes []models.LocationFix) ([]models.LocationFix, error) {
	kept := make([]models.LocationFix, 0, len(fixes))
	malformed := 0

	for _, fix := range fixes {
		if fix.AccuracyMeters < 0 {
			malformed++
			continue
		}
		if fix.AccuracyMeters > f.thresholds.MaxAccuracyM {
			continue
		}
		if fix.HasSpeed() && fix.SpeedMps > f.thresholds.MaxSpeedMPS {
			continue
		}
		// Vehicular fixes represent transit, not dwell time
		if fix.Activity != nil && fix.Activity.Type.IsVehicular() && fix.Activity.Confidence >= f.thresholds.VehicleConfidenceMin {
			continue
		}
		kept = append(kept, fix)
	}

	if malformed > 0 {
		return kept, fmt.Errorf("dropped %d malformed fixes with negative accuracy", malformed)
	}
	return kept, nil
}
