package decision

import (
	"github.com/jengzang/places-backend-go/internal/learning"
	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/scoring"
)

// Strategy selects how auto-accept decisions are made
type Strategy string

const (
	StrategyNever              Strategy = "never"
	StrategyHighConfidenceOnly Strategy = "high_confidence_only"
	StrategyAfterNVisits       Strategy = "after_n_visits"
	StrategyAlways             Strategy = "always"
)

// IsValid reports whether s is a known strategy
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyNever, StrategyHighConfidenceOnly, StrategyAfterNVisits, StrategyAlways:
		return true
	}
	return false
}

// Outcome is the decision for one place candidate
type Outcome string

const (
	OutcomeAutoAccept  Outcome = "auto_accept"
	OutcomeNeedsReview Outcome = "needs_review"
	OutcomeReject      Outcome = "reject"
)

// Params holds the decision engine tunables
type Params struct {
	Strategy            Strategy
	ConfidenceThreshold float64 // HighConfidenceOnly accepts at or above this
	MinVisits           int     // AfterNVisits accepts at or above this count
	RejectThreshold     float64 // candidates below this with no learning signal are discarded
	EnrichmentBonus     float64 // added when the enrichment hint agrees with the category

	// Categories that never auto-accept regardless of strategy
	AlwaysReview []models.Category
}

// DefaultParams provides the default decision parameters
var DefaultParams = Params{
	Strategy:            StrategyHighConfidenceOnly,
	ConfidenceThreshold: 0.75,
	MinVisits:           3,
	RejectThreshold:     0.15,
	EnrichmentBonus:     0.1,
}

// Input carries everything one decision needs
type Input struct {
	Candidate  models.PlaceCandidate
	Score      scoring.Result
	VisitCount int // observed visits on the matched existing place, 0 for new places
	Enrichment *models.EnrichmentResult
}

// Decision is the outcome plus the final confidence and its per-factor
// breakdown (kept for review transparency).
type Decision struct {
	Outcome    Outcome
	Confidence float64
	Breakdown  map[string]float64
}

// Engine combines the pattern score, candidate quality bonuses, the learning
// bonus, and enrichment agreement into a final confidence, then applies the
// configured strategy. Category-level overrides take precedence.
type Engine struct {
	params  Params
	learner *learning.Engine
}

// NewEngine creates a decision engine
func NewEngine(params Params, learner *learning.Engine) *Engine {
	return &Engine{params: params, learner: learner}
}

// Decide evaluates one candidate
func (e *Engine) Decide(in Input) Decision {
	breakdown := map[string]float64{
		"pattern":    0.5 * in.Score.Score,
		"density":    densityBonus(in.Candidate.PointCount),
		"accuracy":   accuracyBonus(in.Candidate.MeanAccuracyM),
		"timespan":   timeSpanBonus(in.Candidate.FirstSeenTS, in.Candidate.LastSeenTS),
		"learning":   0,
		"enrichment": 0,
	}

	category := in.Score.Category
	if category != models.CategoryUnknown {
		breakdown["learning"] = e.learner.ConfidenceBonus(category)
	}
	if in.Enrichment != nil && in.Enrichment.CategoryHint == category && category != models.CategoryUnknown {
		breakdown["enrichment"] = e.params.EnrichmentBonus * in.Enrichment.SourceConfidence
	}

	confidence := 0.0
	for _, v := range breakdown {
		confidence += v
	}
	confidence = clamp01(confidence)

	d := Decision{Confidence: confidence, Breakdown: breakdown}

	// Near-zero confidence with no positive learning signal: discard
	if confidence < e.params.RejectThreshold && breakdown["learning"] <= 0 {
		d.Outcome = OutcomeReject
		return d
	}

	// Category overrides always win over the strategy
	if category == models.CategoryUnknown {
		d.Outcome = OutcomeNeedsReview
		return d
	}
	if e.learner.IsDisabled(category) {
		d.Outcome = OutcomeNeedsReview
		return d
	}
	for _, c := range e.params.AlwaysReview {
		if c == category {
			d.Outcome = OutcomeNeedsReview
			return d
		}
	}

	switch e.params.Strategy {
	case StrategyAlways:
		d.Outcome = OutcomeAutoAccept
	case StrategyHighConfidenceOnly:
		if confidence >= e.params.ConfidenceThreshold {
			d.Outcome = OutcomeAutoAccept
		} else {
			d.Outcome = OutcomeNeedsReview
		}
	case StrategyAfterNVisits:
		if in.VisitCount >= e.params.MinVisits {
			d.Outcome = OutcomeAutoAccept
		} else {
			d.Outcome = OutcomeNeedsReview
		}
	default: // StrategyNever
		d.Outcome = OutcomeNeedsReview
	}
	return d
}

// densityBonus rewards larger clusters, up to +0.1 at 50 points
func densityBonus(pointCount int) float64 {
	if pointCount > 50 {
		pointCount = 50
	}
	return float64(pointCount) / 50.0 * 0.1
}

// accuracyBonus rewards tight GPS accuracy, up to +0.1
func accuracyBonus(meanAccuracyM float64) float64 {
	switch {
	case meanAccuracyM <= 10:
		return 0.1
	case meanAccuracyM <= 30:
		return 0.05
	default:
		return 0
	}
}

// timeSpanBonus rewards patterns observed across multiple days, up to +0.1
func timeSpanBonus(firstTS, lastTS int64) float64 {
	days := float64(lastTS-firstTS) / 86400.0
	switch {
	case days >= 3:
		return 0.1
	case days >= 1:
		return 0.05
	default:
		return 0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
