package validation

// Severity classifies how serious a finding is
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// Finding codes
const (
	CodeVisitTooShort        = "VISIT_TOO_SHORT"
	CodeVisitTooLong         = "VISIT_TOO_LONG"
	CodeVisitInvalidInterval = "VISIT_INVALID_INTERVAL"
	CodeVisitFutureEntry     = "VISIT_FUTURE_ENTRY"
	CodeSequenceNonMonotonic = "SEQUENCE_NON_MONOTONIC"
	CodeImplausibleSpeed     = "SEQUENCE_IMPLAUSIBLE_SPEED"
	CodeExcessiveFrequency   = "SEQUENCE_EXCESSIVE_FREQUENCY"
	CodePlaceTooClose        = "PLACE_TOO_CLOSE"
	CodePotentialDuplicate   = "PLACE_POTENTIAL_DUPLICATE"
	CodeConfigOutOfRange     = "CONFIG_OUT_OF_RANGE"
)

// Suggested recovery actions
const (
	ActionNone   = "NONE"
	ActionReview = "REVIEW"
	ActionMerge  = "MERGE"
	ActionDrop   = "DROP"
	ActionFix    = "FIX_CONFIG"
)

// Finding is a single validation outcome with a suggested recovery action
type Finding struct {
	Code            string   `json:"code"`
	Severity        Severity `json:"severity"`
	Message         string   `json:"message"`
	SuggestedAction string   `json:"suggestedAction"`
}

// Result collects findings from one validation call. An empty result means
// the input passed all rules.
type Result struct {
	Findings []Finding `json:"findings"`
}

// OK reports whether no finding of severity ERROR or above was recorded
func (r Result) OK() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError || f.Severity == SeverityCritical {
			return false
		}
	}
	return true
}

// HasCode reports whether a finding with the given code exists
func (r Result) HasCode(code string) bool {
	for _, f := range r.Findings {
		if f.Code == code {
			return true
		}
	}
	return false
}

// Errors returns only the ERROR and CRITICAL findings
func (r Result) Errors() []Finding {
	var errs []Finding
	for _, f := range r.Findings {
		if f.Severity == SeverityError || f.Severity == SeverityCritical {
			errs = append(errs, f)
		}
	}
	return errs
}

func (r *Result) add(code string, severity Severity, message, action string) {
	r.Findings = append(r.Findings, Finding{
		Code:            code,
		Severity:        severity,
		Message:         message,
		SuggestedAction: action,
	})
}
