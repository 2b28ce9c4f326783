package models

// Detection run status values
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// DetectionRun tracks one batch detection run over a location snapshot
type DetectionRun struct {
	ID              int64   `json:"id" db:"id"`
	Status          string  `json:"status" db:"status"`
	LookbackHours   int     `json:"lookbackHours" db:"lookback_hours"`
	TotalFixes      int     `json:"totalFixes" db:"total_fixes"`
	FilteredFixes   int     `json:"filteredFixes" db:"filtered_fixes"`
	ClusterCount    int     `json:"clusterCount" db:"cluster_count"`
	AcceptedCount   int     `json:"acceptedCount" db:"accepted_count"`
	ReviewCount     int     `json:"reviewCount" db:"review_count"`
	RejectedCount   int     `json:"rejectedCount" db:"rejected_count"`
	ProgressPercent float64 `json:"progressPercent" db:"progress_percent"`
	ErrorMessage    string  `json:"errorMessage,omitempty" db:"error_message"`
	SummaryJSON     string  `json:"summaryJson,omitempty" db:"summary_json"`

	CreatedAt   string  `json:"createdAt" db:"created_at"`
	StartedAt   *string `json:"startedAt,omitempty" db:"started_at"`
	CompletedAt *string `json:"completedAt,omitempty" db:"completed_at"`
}

// IsTerminal reports whether the run has finished
func (r *DetectionRun) IsTerminal() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}
