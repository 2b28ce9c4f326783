package learning

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jengzang/places-backend-go/internal/models"
)

// Params holds the learning engine tunables
type Params struct {
	Delta            float64 // score change per acceptance/rejection, valid range (0, 0.5]
	BonusRange       float64 // bonus maps score linearly onto [-BonusRange, +BonusRange]
	DisableThreshold float64 // categories with score below this are disabled
}

// DefaultParams provides the default learning parameters
var DefaultParams = Params{
	Delta:            0.1,
	BonusRange:       0.2,
	DisableThreshold: -0.8,
}

// PreferenceStore persists preference cells and the correction audit log.
// Implementations must tolerate being called from multiple goroutines.
type PreferenceStore interface {
	UpsertPreference(pref models.CategoryPreference) error
	AppendCorrection(correction models.UserCorrection) error
}

// cell holds one category's preference behind its own lock, so updates to
// different categories never contend.
type cell struct {
	mu   sync.Mutex
	pref models.CategoryPreference
}

// Engine maintains one preference per category and derives a bounded
// confidence bonus from human feedback. All mutations to one category are
// serialized by that category's cell lock.
type Engine struct {
	params Params
	store  PreferenceStore
	cells  map[models.Category]*cell
}

// NewEngine creates a learning engine seeded with the given preferences.
// Categories without a seed start at score zero.
func NewEngine(params Params, store PreferenceStore, seed []models.CategoryPreference) *Engine {
	e := &Engine{
		params: params,
		store:  store,
		cells:  make(map[models.Category]*cell, len(models.AllCategories)),
	}
	for _, c := range models.AllCategories {
		e.cells[c] = &cell{pref: models.CategoryPreference{Category: c}}
	}
	for _, pref := range seed {
		if existing, ok := e.cells[pref.Category]; ok {
			existing.pref = pref
		}
	}
	return e
}

// RecordAcceptance raises the category's score by one delta
func (e *Engine) RecordAcceptance(category models.Category) error {
	return e.adjust(category, func(p *models.CategoryPreference) {
		p.Score = clampScore(p.Score + e.params.Delta)
		p.AcceptanceCount++
	})
}

// RecordRejection lowers the category's score by one delta
func (e *Engine) RecordRejection(category models.Category) error {
	return e.adjust(category, func(p *models.CategoryPreference) {
		p.Score = clampScore(p.Score - e.params.Delta)
		p.RejectionCount++
	})
}

// RecordCorrection moves preference from the original category to the
// corrected one and appends an entry to the correction log.
func (e *Engine) RecordCorrection(placeID string, from, to models.Category) error {
	if from == to {
		return fmt.Errorf("correction must change the category (got %s twice)", from)
	}

	if err := e.adjust(from, func(p *models.CategoryPreference) {
		p.Score = clampScore(p.Score - e.params.Delta)
		p.CorrectionCount++
	}); err != nil {
		return err
	}
	if err := e.adjust(to, func(p *models.CategoryPreference) {
		p.Score = clampScore(p.Score + e.params.Delta)
		p.CorrectionCount++
	}); err != nil {
		return err
	}

	correction := models.UserCorrection{
		PlaceID:           placeID,
		OriginalCategory:  from,
		CorrectedCategory: to,
		Timestamp:         time.Now().Unix(),
	}
	if e.store != nil {
		if err := e.store.AppendCorrection(correction); err != nil {
			return fmt.Errorf("failed to append correction: %w", err)
		}
	}
	return nil
}

// ConfidenceBonus maps the category's score linearly onto
// [-BonusRange, +BonusRange]. Unknown categories get no bonus.
func (e *Engine) ConfidenceBonus(category models.Category) float64 {
	c, ok := e.cells[category]
	if !ok {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pref.Score * e.params.BonusRange
}

// IsDisabled reports whether the category's score has fallen below the
// low-water mark. Disabled categories are always routed to review, never
// silently dropped.
func (e *Engine) IsDisabled(category models.Category) bool {
	c, ok := e.cells[category]
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pref.Score < e.params.DisableThreshold
}

// Preference returns a snapshot of one category's preference
func (e *Engine) Preference(category models.Category) (models.CategoryPreference, bool) {
	c, ok := e.cells[category]
	if !ok {
		return models.CategoryPreference{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pref, true
}

// Preferences returns a snapshot of every category's preference in
// declaration order
func (e *Engine) Preferences() []models.CategoryPreference {
	prefs := make([]models.CategoryPreference, 0, len(models.AllCategories))
	for _, category := range models.AllCategories {
		if pref, ok := e.Preference(category); ok {
			prefs = append(prefs, pref)
		}
	}
	return prefs
}

// adjust applies a mutation under the cell lock and writes the new state
// through to the store
func (e *Engine) adjust(category models.Category, mutate func(*models.CategoryPreference)) error {
	c, ok := e.cells[category]
	if !ok {
		return fmt.Errorf("unknown category %q", category)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	mutate(&c.pref)
	c.pref.UpdatedAt = time.Now().Unix()

	if e.store != nil {
		if err := e.store.UpsertPreference(c.pref); err != nil {
			return fmt.Errorf("failed to persist preference for %s: %w", category, err)
		}
	}

	log.Printf("[LearningEngine] %s score=%.2f (accept=%d reject=%d correct=%d)",
		category, c.pref.Score, c.pref.AcceptanceCount, c.pref.RejectionCount, c.pref.CorrectionCount)
	return nil
}

func clampScore(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
