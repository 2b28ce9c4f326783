package models

import "time"

// Visit represents a continuous dwell interval at a place.
// An open visit has ExitTime == nil and is valid; its duration is computed
// against "now" for reporting.
type Visit struct {
	ID        string `json:"id" db:"id"`
	PlaceID   string `json:"placeId" db:"place_id"`
	EntryTime int64  `json:"entryTime" db:"entry_time"` // Unix timestamp (seconds)
	ExitTime  *int64 `json:"exitTime,omitempty" db:"exit_time"`
}

// IsOpen reports whether the visit has no recorded exit
func (v Visit) IsOpen() bool {
	return v.ExitTime == nil
}

// DurationMs returns the visit duration in milliseconds. Open visits are
// measured against the supplied reference time.
func (v Visit) DurationMs(now time.Time) int64 {
	end := now.Unix()
	if v.ExitTime != nil {
		end = *v.ExitTime
	}
	return (end - v.EntryTime) * 1000
}
