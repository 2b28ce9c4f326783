package scoring

import (
	"github.com/jengzang/places-backend-go/internal/models"
)

// ScoreFn scores a temporal profile against one category archetype,
// returning pattern strength in [0,1]. Score functions are pure.
type ScoreFn func(models.TemporalProfile) float64

// categoryEntry pairs a category with its scoring function. Table order
// follows models.AllCategories and decides ties.
type categoryEntry struct {
	Category models.Category
	Fn       ScoreFn
}

// scoreTable lists every scoreable category in declaration order
var scoreTable = []categoryEntry{
	{models.CategoryHome, scoreHome},
	{models.CategoryWork, scoreWork},
	{models.CategoryGym, scoreGym},
	{models.CategoryRestaurant, scoreRestaurant},
	{models.CategoryShopping, scoreShopping},
	{models.CategoryTransit, scoreTransit},
	{models.CategoryEducation, scoreEducation},
}

// Result is the outcome of scoring one candidate
type Result struct {
	Category models.Category
	Score    float64

	// Per-category scores, kept for the review confidence breakdown
	Breakdown map[models.Category]float64
}

// Scorer selects the best-matching category for a temporal profile
type Scorer struct {
	acceptanceThreshold float64
}

// NewScorer creates a scorer with the given acceptance threshold.
// A maximum score below the threshold yields UNKNOWN; the comparison is
// inclusive, so a score exactly at the threshold is accepted.
func NewScorer(acceptanceThreshold float64) *Scorer {
	return &Scorer{acceptanceThreshold: acceptanceThreshold}
}

// Score evaluates every category and picks the maximum. Ties keep the
// earlier category in table order.
func (s *Scorer) Score(profile models.TemporalProfile) Result {
	result := Result{
		Category:  models.CategoryUnknown,
		Breakdown: make(map[models.Category]float64, len(scoreTable)),
	}

	best := -1.0
	bestCategory := models.CategoryUnknown
	for _, entry := range scoreTable {
		score := clamp01(entry.Fn(profile))
		result.Breakdown[entry.Category] = score
		if score > best {
			best = score
			bestCategory = entry.Category
		}
	}

	if best >= s.acceptanceThreshold {
		result.Category = bestCategory
		result.Score = best
	} else {
		result.Score = best
	}
	return result
}

// ApplyHint folds an external enrichment hint into a score result as a
// bounded additive bonus (never an unconditional override) and re-selects
// the winner. A nil hint or unknown hint category returns the input unchanged.
func (s *Scorer) ApplyHint(result Result, hint *models.EnrichmentResult, bonusWeight float64) Result {
	if hint == nil || !hint.CategoryHint.IsValid() {
		return result
	}

	boosted := Result{
		Category:  models.CategoryUnknown,
		Breakdown: make(map[models.Category]float64, len(result.Breakdown)),
	}
	for c, v := range result.Breakdown {
		boosted.Breakdown[c] = v
	}
	boosted.Breakdown[hint.CategoryHint] = clamp01(boosted.Breakdown[hint.CategoryHint] + bonusWeight*hint.SourceConfidence)

	best := -1.0
	bestCategory := models.CategoryUnknown
	for _, entry := range scoreTable {
		score := boosted.Breakdown[entry.Category]
		if score > best {
			best = score
			bestCategory = entry.Category
		}
	}

	if best >= s.acceptanceThreshold {
		boosted.Category = bestCategory
	}
	boosted.Score = best
	return boosted
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
