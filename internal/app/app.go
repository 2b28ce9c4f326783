package app

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/places-backend-go/internal/api"
	"github.com/jengzang/places-backend-go/internal/config"
	"github.com/jengzang/places-backend-go/internal/database"
	"github.com/jengzang/places-backend-go/internal/decision"
	"github.com/jengzang/places-backend-go/internal/detection"
	"github.com/jengzang/places-backend-go/internal/enrichment"
	"github.com/jengzang/places-backend-go/internal/handler"
	"github.com/jengzang/places-backend-go/internal/learning"
	"github.com/jengzang/places-backend-go/internal/pipeline"
	"github.com/jengzang/places-backend-go/internal/repository"
	"github.com/jengzang/places-backend-go/internal/review"
	"github.com/jengzang/places-backend-go/internal/scoring"
	"github.com/jengzang/places-backend-go/internal/service"
	"github.com/jengzang/places-backend-go/internal/validation"
)

// App wires configuration, storage, engines, services and handlers into one
// runnable unit
type App struct {
	Config *config.Config
	DB     *sql.DB

	Detection  *service.DetectionService
	Place      *service.PlaceService
	Review     *service.ReviewService
	Preference *service.PreferenceService
}

// New assembles the application from a validated config. The database is
// opened and migrated before any engine is constructed.
func New(cfg *config.Config) (*App, error) {
	db, err := database.Open(database.Config{Path: cfg.Database.Path})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	fixRepo := repository.NewFixRepository(db)
	placeRepo := repository.NewPlaceRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)
	runRepo := repository.NewDetectionRunRepository(db)

	seed, err := prefRepo.LoadPreferences()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	learner := learning.NewEngine(cfg.LearningParams(), prefRepo, seed)

	validator := validation.NewValidator(validation.DefaultThresholds)
	scorer := scoring.NewScorer(cfg.Scoring.AcceptanceThreshold)
	decider := decision.NewEngine(cfg.DecisionParams(), learner)

	var enricher pipeline.Enricher
	if cfg.Enrichment.Enabled {
		enricher = enrichment.NewClient(cfg.Enrichment.BaseURL, cfg.EnrichmentTimeout())
		log.Printf("[App] Enrichment enabled: %s", cfg.Enrichment.BaseURL)
	}

	runner := pipeline.NewRunner(
		cfg.RunnerParams(),
		detection.NewQualityFilter(cfg.QualityThresholds()),
		detection.NewClusterer(cfg.ClusterParams()),
		detection.NewCandidateBuilder(cfg.CandidateParams()),
		scorer,
		decider,
		validator,
		fixRepo,
		placeRepo,
		enricher,
	)

	workflow := review.NewWorkflow(placeRepo, reviewRepo, learner, validator)

	return &App{
		Config:     cfg,
		DB:         db,
		Detection:  service.NewDetectionService(runRepo, runner),
		Place:      service.NewPlaceService(placeRepo, fixRepo),
		Review:     service.NewReviewService(reviewRepo, workflow),
		Preference: service.NewPreferenceService(learner, prefRepo),
	}, nil
}

// Router builds the HTTP router over the app's services
func (a *App) Router() *gin.Engine {
	return api.SetupRouter(a.Config, api.Handlers{
		Place:      handler.NewPlaceHandler(a.Place),
		Review:     handler.NewReviewHandler(a.Review),
		Detection:  handler.NewDetectionHandler(a.Detection),
		Preference: handler.NewPreferenceHandler(a.Preference),
	})
}

// Close releases the app's resources
func (a *App) Close() error {
	return a.DB.Close()
}
