package validation

import (
	"fmt"
	"sort"
	"time"

	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/spatial"
)

// Thresholds defines configurable thresholds for business-rule validation
type Thresholds struct {
	MinVisitDuration   time.Duration // below this a visit is suspiciously short
	MaxVisitDuration   time.Duration // above this a visit is suspiciously long
	FutureEntryGrace   time.Duration // entry times further in the future are errors
	MaxImpliedSpeedMPS float64       // implied speed between consecutive fixes
	MaxFixesPerHour    float64       // fix frequency ceiling
	TooCloseMeters     float64       // centroid distance flagged "too close"
	DuplicateMeters    float64       // centroid distance considered for duplicates
	MinNameSimilarity  float64       // name similarity above this flags a duplicate
}

// DefaultThresholds provides the default validation thresholds
var DefaultThresholds = Thresholds{
	MinVisitDuration:   1 * time.Minute,
	MaxVisitDuration:   72 * time.Hour,
	FutureEntryGrace:   5 * time.Minute,
	MaxImpliedSpeedMPS: 150.0,
	MaxFixesPerHour:    3600.0,
	TooCloseMeters:     10.0,
	DuplicateMeters:    100.0,
	MinNameSimilarity:  0.8,
}

// Validator applies business rules to visits, location sequences, places, and
// configuration values. It holds no mutable state and is safe for concurrent use.
type Validator struct {
	thresholds Thresholds
}

// NewValidator creates a validator with the given thresholds
func NewValidator(thresholds Thresholds) *Validator {
	return &Validator{thresholds: thresholds}
}

// NewDefaultValidator creates a validator with default thresholds
func NewDefaultValidator() *Validator {
	return NewValidator(DefaultThresholds)
}

// ValidateVisit checks a visit's entry/exit interval. "now" is passed in so
// the rule stays deterministic under test.
func (v *Validator) ValidateVisit(visit models.Visit, now time.Time) Result {
	var result Result

	entry := time.Unix(visit.EntryTime, 0)

	if entry.After(now.Add(v.thresholds.FutureEntryGrace)) {
		result.add(CodeVisitFutureEntry, SeverityError,
			fmt.Sprintf("visit entry time %s is more than %s in the future", entry.UTC().Format(time.RFC3339), v.thresholds.FutureEntryGrace),
			ActionDrop)
	}

	if visit.ExitTime == nil {
		// Open visits carry no duration rules
		return result
	}

	exit := time.Unix(*visit.ExitTime, 0)
	if !entry.Before(exit) {
		result.add(CodeVisitInvalidInterval, SeverityError,
			fmt.Sprintf("visit entry time %s is not before exit time %s", entry.UTC().Format(time.RFC3339), exit.UTC().Format(time.RFC3339)),
			ActionDrop)
		return result
	}

	duration := exit.Sub(entry)
	if duration < v.thresholds.MinVisitDuration {
		result.add(CodeVisitTooShort, SeverityWarning,
			fmt.Sprintf("visit duration %s is below %s", duration, v.thresholds.MinVisitDuration),
			ActionReview)
	}
	if duration > v.thresholds.MaxVisitDuration {
		result.add(CodeVisitTooLong, SeverityWarning,
			fmt.Sprintf("visit duration %s exceeds %s", duration, v.thresholds.MaxVisitDuration),
			ActionReview)
	}

	return result
}

// ValidateSequence checks a location sequence for timestamp monotonicity,
// implausible implied speed, and excessive fix frequency. The input is not
// modified; fixes are evaluated in timestamp order.
func (v *Validator) ValidateSequence(fixes []models.LocationFix) Result {
	var result Result

	if len(fixes) < 2 {
		return result
	}

	ordered := make([]models.LocationFix, len(fixes))
	copy(ordered, fixes)
	sortFixesByTime(ordered)

	for i := 1; i < len(ordered); i++ {
		prev := ordered[i-1]
		curr := ordered[i]

		dt := curr.TimestampUTC - prev.TimestampUTC
		if dt <= 0 {
			result.add(CodeSequenceNonMonotonic, SeverityError,
				fmt.Sprintf("duplicate or non-increasing timestamp at fix %d (%d)", i, curr.TimestampUTC),
				ActionDrop)
			continue
		}

		dist := spatial.HaversineDistance(prev.Latitude, prev.Longitude, curr.Latitude, curr.Longitude)
		speed := dist / float64(dt)
		if speed > v.thresholds.MaxImpliedSpeedMPS {
			result.add(CodeImplausibleSpeed, SeverityWarning,
				fmt.Sprintf("implied speed %.1f m/s between fixes %d and %d exceeds %.1f m/s", speed, i-1, i, v.thresholds.MaxImpliedSpeedMPS),
				ActionReview)
		}
	}

	span := ordered[len(ordered)-1].TimestampUTC - ordered[0].TimestampUTC
	if span > 0 {
		perHour := float64(len(ordered)) / (float64(span) / 3600.0)
		if perHour > v.thresholds.MaxFixesPerHour {
			result.add(CodeExcessiveFrequency, SeverityWarning,
				fmt.Sprintf("fix frequency %.0f/hour exceeds %.0f/hour", perHour, v.thresholds.MaxFixesPerHour),
				ActionReview)
		}
	}

	return result
}

// ValidatePlaceProximity checks a new place against existing places for
// "too close" centroids and near-duplicates by distance plus name similarity.
// Findings suggest a merge but nothing is merged automatically.
func (v *Validator) ValidatePlaceProximity(candidate models.Place, existing []models.Place) Result {
	var result Result

	for _, other := range existing {
		if other.ID == candidate.ID {
			continue
		}

		dist := spatial.HaversineDistance(candidate.CentroidLat, candidate.CentroidLon, other.CentroidLat, other.CentroidLon)

		if dist < v.thresholds.TooCloseMeters {
			result.add(CodePlaceTooClose, SeverityWarning,
				fmt.Sprintf("place centroid is %.1fm from existing place %q (%s)", dist, other.Name, other.ID),
				ActionMerge)
			continue
		}

		if dist < v.thresholds.DuplicateMeters {
			similarity := NameSimilarity(candidate.Name, other.Name)
			if similarity > v.thresholds.MinNameSimilarity {
				result.add(CodePotentialDuplicate, SeverityWarning,
					fmt.Sprintf("place %q is %.1fm from %q with name similarity %.2f", candidate.Name, dist, other.Name, similarity),
					ActionMerge)
			}
		}
	}

	return result
}

// BoundCheck describes one numeric configuration parameter and its documented
// valid range (inclusive).
type BoundCheck struct {
	Name  string
	Value float64
	Min   float64
	Max   float64
}

// ValidateConfigBounds rejects tunables outside their documented valid range.
// Out-of-range values are errors, never silently clamped.
func (v *Validator) ValidateConfigBounds(checks []BoundCheck) Result {
	var result Result

	for _, c := range checks {
		if c.Value < c.Min || c.Value > c.Max {
			result.add(CodeConfigOutOfRange, SeverityError,
				fmt.Sprintf("%s = %v is outside valid range [%v, %v]", c.Name, c.Value, c.Min, c.Max),
				ActionFix)
		}
	}

	return result
}

// sortFixesByTime sorts fixes by timestamp, then by ID for a stable order
func sortFixesByTime(fixes []models.LocationFix) {
	sort.SliceStable(fixes, func(i, j int) bool {
		if fixes[i].TimestampUTC != fixes[j].TimestampUTC {
			return fixes[i].TimestampUTC < fixes[j].TimestampUTC
		}
		return fixes[i].ID < fixes[j].ID
	})
}
