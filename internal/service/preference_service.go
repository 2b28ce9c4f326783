package service

import (
	"github.com/jengzang/places-backend-go/internal/learning"
	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/repository"
)

// PreferenceService exposes read-only views onto the learned preference
// state. Writes happen only through review resolutions.
type PreferenceService struct {
	engine *learning.Engine
	prefs  *repository.PreferenceRepository
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(engine *learning.Engine, prefs *repository.PreferenceRepository) *PreferenceService {
	return &PreferenceService{engine: engine, prefs: prefs}
}

// GetPreferences returns the current in-memory preference snapshot
func (s *PreferenceService) GetPreferences() []models.CategoryPreference {
	return s.engine.Preferences()
}

// GetPreference returns the preference state for one category
func (s *PreferenceService) GetPreference(category models.Category) (models.CategoryPreference, bool) {
	return s.engine.Preference(category)
}

// ListCorrections returns recent category corrections, newest first
func (s *PreferenceService) ListCorrections(limit int) ([]models.UserCorrection, error) {
	return s.prefs.ListCorrections(limit)
}
