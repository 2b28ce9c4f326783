package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/pipeline"
	"github.com/jengzang/places-backend-go/internal/repository"
)

// DetectionService creates and tracks batch detection runs.
// Runs execute asynchronously; their lifecycle is recorded in the
// detection_runs table.
type DetectionService struct {
	runs   *repository.DetectionRunRepository
	runner *pipeline.Runner
}

// NewDetectionService creates a new detection service
func NewDetectionService(runs *repository.DetectionRunRepository, runner *pipeline.Runner) *DetectionService {
	return &DetectionService{runs: runs, runner: runner}
}

// StartRun creates a run record and launches the detection pipeline in the
// background. Returns the pending run.
func (s *DetectionService) StartRun(ctx context.Context, lookbackHours int) (*models.DetectionRun, error) {
	if lookbackHours < 1 {
		return nil, fmt.Errorf("lookback hours must be at least 1, got %d", lookbackHours)
	}

	id, err := s.runs.Create(ctx, lookbackHours)
	if err != nil {
		return nil, fmt.Errorf("failed to create detection run: %w", err)
	}

	// Detached from the request context so the run survives the HTTP response
	go s.execute(context.Background(), id, time.Duration(lookbackHours)*time.Hour)

	return s.runs.GetByID(ctx, id)
}

// execute drives one detection run to a terminal status. runCtx governs the
// pipeline only; status writes use a detached context so a cancelled run is
// still marked failed.
func (s *DetectionService) execute(runCtx context.Context, runID int64, lookback time.Duration) {
	ctx := context.Background()

	if err := s.runs.MarkRunning(ctx, runID); err != nil {
		log.Printf("[DetectionService] Failed to mark run %d running: %v", runID, err)
		return
	}
	log.Printf("[DetectionService] Run %d started (lookback %s)", runID, lookback)

	summary, err := s.runner.Run(runCtx, lookback)
	if err != nil {
		log.Printf("[DetectionService] Run %d failed: %v", runID, err)
		if markErr := s.runs.MarkFailed(ctx, runID, err.Error()); markErr != nil {
			log.Printf("[DetectionService] Failed to mark run %d failed: %v", runID, markErr)
		}
		return
	}

	if err := s.recordCounts(ctx, runID, summary); err != nil {
		log.Printf("[DetectionService] Failed to record counts for run %d: %v", runID, err)
	}

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		summaryJSON = []byte("{}")
	}
	if err := s.runs.MarkCompleted(ctx, runID, string(summaryJSON)); err != nil {
		log.Printf("[DetectionService] Failed to mark run %d completed: %v", runID, err)
		return
	}
	log.Printf("[DetectionService] Run %d completed: %d clusters, %d accepted, %d for review, %d rejected",
		runID, summary.ClusterCount, summary.Accepted, summary.NeedsReview, summary.Rejected)
}

func (s *DetectionService) recordCounts(ctx context.Context, runID int64, summary *pipeline.Summary) error {
	return s.runs.UpdateCounts(ctx, runID, &models.DetectionRun{
		TotalFixes:      summary.TotalFixes,
		FilteredFixes:   summary.FilteredFixes,
		ClusterCount:    summary.ClusterCount,
		AcceptedCount:   summary.Accepted,
		ReviewCount:     summary.NeedsReview,
		RejectedCount:   summary.Rejected,
		ProgressPercent: 100,
	})
}

// GetRun retrieves a single run by ID
func (s *DetectionService) GetRun(ctx context.Context, id int64) (*models.DetectionRun, error) {
	return s.runs.GetByID(ctx, id)
}

// ListRuns retrieves recent runs, newest first
func (s *DetectionService) ListRuns(ctx context.Context, limit int) ([]models.DetectionRun, error) {
	return s.runs.List(ctx, limit)
}

// RunOnce executes a detection run synchronously, tracking it in the run
// table like an asynchronous one. Used by the CLI.
func (s *DetectionService) RunOnce(ctx context.Context, lookbackHours int) (*models.DetectionRun, error) {
	if lookbackHours < 1 {
		return nil, fmt.Errorf("lookback hours must be at least 1, got %d", lookbackHours)
	}

	id, err := s.runs.Create(ctx, lookbackHours)
	if err != nil {
		return nil, fmt.Errorf("failed to create detection run: %w", err)
	}

	s.execute(ctx, id, time.Duration(lookbackHours)*time.Hour)
	return s.runs.GetByID(context.Background(), id)
}
