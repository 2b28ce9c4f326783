package models

// ReviewStatus represents the state of a place review
type ReviewStatus string

const (
	ReviewStatusPending        ReviewStatus = "pending"
	ReviewStatusApproved       ReviewStatus = "approved"
	ReviewStatusEditedApproved ReviewStatus = "edited_approved"
	ReviewStatusRejected       ReviewStatus = "rejected"
)

// IsTerminal reports whether the status allows no further transitions
func (s ReviewStatus) IsTerminal() bool {
	return s == ReviewStatusApproved || s == ReviewStatusEditedApproved || s == ReviewStatusRejected
}

// PlaceReview represents a pending or resolved human review of a detected
// place. At most one active review exists per place.
type PlaceReview struct {
	ID       string       `json:"id" db:"id"`
	PlaceID  string       `json:"placeId" db:"place_id"`
	Status   ReviewStatus `json:"status" db:"status"`
	Priority int          `json:"priority" db:"priority"` // 1 (highest) to 5, derived, not independently mutable

	// Per-factor confidence contributions, stored for transparency only;
	// has no effect on transitions.
	ConfidenceBreakdown map[string]float64 `json:"confidenceBreakdown"`

	CreatedAt  int64 `json:"createdAt,omitempty" db:"created_at"`
	ResolvedAt int64 `json:"resolvedAt,omitempty" db:"resolved_at"`
}

// UserCorrection records a human category correction, append-only
type UserCorrection struct {
	ID                int64    `json:"id" db:"id"`
	PlaceID           string   `json:"placeId" db:"place_id"`
	OriginalCategory  Category `json:"originalCategory" db:"original_category"`
	CorrectedCategory Category `json:"correctedCategory" db:"corrected_category"`
	Timestamp         int64    `json:"timestamp" db:"created_at"`
}
