package models

// ActivityType describes the motion activity reported alongside a GPS fix
type ActivityType string

const (
	ActivityStill      ActivityType = "still"
	ActivityWalking    ActivityType = "walking"
	ActivityRunning    ActivityType = "running"
	ActivityCycling    ActivityType = "cycling"
	ActivityInVehicle  ActivityType = "in_vehicle"
	ActivityUnknown    ActivityType = "unknown"
)

// IsVehicular reports whether the activity indicates vehicular motion
func (a ActivityType) IsVehicular() bool {
	return a == ActivityInVehicle
}

// DetectedActivity is an optional activity annotation on a fix
type DetectedActivity struct {
	Type       ActivityType `json:"type" db:"activity_type"`
	Confidence float64      `json:"confidence" db:"activity_confidence"` // 0.0 to 1.0
}

// LocationFix represents a single raw positional fix. Immutable once ingested.
type LocationFix struct {
	ID             int64   `json:"id" db:"id"`
	Latitude       float64 `json:"latitude" db:"latitude"`
	Longitude      float64 `json:"longitude" db:"longitude"`
	TimestampUTC   int64   `json:"timestampUtc" db:"timestamp_utc"` // Unix timestamp (seconds)
	AccuracyMeters float64 `json:"accuracyMeters" db:"accuracy_meters"`

	// Optional fields; negative SpeedMps means "not reported"
	SpeedMps float64           `json:"speedMps,omitempty" db:"speed_mps"`
	Activity *DetectedActivity `json:"activity,omitempty"`
}

// HasSpeed reports whether the fix carries a speed reading
func (f LocationFix) HasSpeed() bool {
	return f.SpeedMps >= 0
}
