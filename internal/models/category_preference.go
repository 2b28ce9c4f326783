package models

// CategoryPreference holds the learned preference state for one category.
// One record per category; mutated only through the learning engine.
type CategoryPreference struct {
	Category        Category `json:"category" db:"category"`
	Score           float64  `json:"score" db:"score"` // -1.0 to 1.0
	AcceptanceCount int      `json:"acceptanceCount" db:"acceptance_count"`
	RejectionCount  int      `json:"rejectionCount" db:"rejection_count"`
	CorrectionCount int      `json:"correctionCount" db:"correction_count"`

	UpdatedAt int64 `json:"updatedAt,omitempty" db:"updated_at"`
}
