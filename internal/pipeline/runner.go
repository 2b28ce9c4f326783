package pipeline

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/places-backend-go/internal/decision"
	"github.com/jengzang/places-backend-go/internal/detection"
	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/review"
	"github.com/jengzang/places-backend-go/internal/scoring"
	"github.com/jengzang/places-backend-go/internal/spatial"
	"github.com/jengzang/places-backend-go/internal/validation"
)

// RunnerParams holds the orchestrator tunables
type RunnerParams struct {
	HintBonusWeight float64 // weight of the enrichment hint in category scoring
	MatchRadiusM    float64 // candidates within this distance of an existing place accrue a visit
}

// DefaultRunnerParams provides the default orchestrator parameters
var DefaultRunnerParams = RunnerParams{
	HintBonusWeight: 0.3,
	MatchRadiusM:    75.0,
}

// Runner executes one batch detection run over an immutable snapshot:
// filter, cluster, build candidates, score, decide, persist. Stages run
// sequentially and deterministically; each candidate's persistence commits
// as a single unit, so cancellation discards only unprocessed candidates.
type Runner struct {
	params    RunnerParams
	filter    *detection.QualityFilter
	clusterer *detection.Clusterer
	builder   *detection.CandidateBuilder
	scorer    *scoring.Scorer
	decider   *decision.Engine
	validator *validation.Validator

	source   LocationSource
	store    PlaceStore
	enricher Enricher // may be nil
}

// NewRunner assembles a detection runner. The enricher may be nil.
func NewRunner(
	params RunnerParams,
	filter *detection.QualityFilter,
	clusterer *detection.Clusterer,
	builder *detection.CandidateBuilder,
	scorer *scoring.Scorer,
	decider *decision.Engine,
	validator *validation.Validator,
	source LocationSource,
	store PlaceStore,
	enricher Enricher,
) *Runner {
	return &Runner{
		params:    params,
		filter:    filter,
		clusterer: clusterer,
		builder:   builder,
		scorer:    scorer,
		decider:   decider,
		validator: validator,
		source:    source,
		store:     store,
		enricher:  enricher,
	}
}

// Run performs one detection run over the given lookback window. On
// cancellation the summary covers the candidates processed so far and the
// context error is returned.
func (r *Runner) Run(ctx context.Context, lookback time.Duration) (*Summary, error) {
	summary := &Summary{}

	since := time.Now().Add(-lookback)
	fixes, err := r.source.FixesSince(ctx, since)
	if err != nil {
		return summary, fmt.Errorf("failed to fetch location snapshot: %w", err)
	}
	summary.TotalFixes = len(fixes)
	log.Printf("[DetectionRunner] Snapshot: %d fixes since %s", len(fixes), since.UTC().Format(time.RFC3339))

	fixes, dropped := r.dropInvalidSequences(fixes)
	summary.DroppedDays = dropped

	filtered, err := r.filter.Filter(fixes)
	if err != nil {
		// Data-quality problem, not fatal to the batch
		log.Printf("[DetectionRunner] Quality filter: %v", err)
	}
	summary.FilteredFixes = len(filtered)

	clusters := r.clusterer.Cluster(filtered)
	summary.ClusterCount = len(clusters)
	log.Printf("[DetectionRunner] %d fixes passed quality filtering, %d clusters", len(filtered), len(clusters))

	existing, err := r.store.ListPlaces(ctx, models.PlaceStatusActive, models.PlaceStatusPendingReview)
	if err != nil {
		return summary, fmt.Errorf("failed to list existing places: %w", err)
	}

	for _, cluster := range clusters {
		if err := ctx.Err(); err != nil {
			log.Printf("[DetectionRunner] Run cancelled after %d/%d clusters", summary.Accepted+summary.NeedsReview+summary.Rejected, len(clusters))
			return summary, err
		}

		if err := r.processCluster(ctx, cluster, existing, summary); err != nil {
			return summary, err
		}
	}

	log.Printf("[DetectionRunner] Run completed: %d accepted, %d for review, %d rejected, %d visits",
		summary.Accepted, summary.NeedsReview, summary.Rejected, summary.VisitsAccrued)
	return summary, nil
}

// processCluster scores and persists one candidate as a single unit
func (r *Runner) processCluster(ctx context.Context, cluster detection.Cluster, existing []models.Place, summary *Summary) error {
	candidate := r.builder.Build(cluster)
	if candidate == nil {
		return nil
	}

	profile := detection.BuildTemporalProfile(cluster)
	score := r.scorer.Score(profile)

	enrichment := r.lookupEnrichment(ctx, candidate.CentroidLat, candidate.CentroidLon)
	score = r.scorer.ApplyHint(score, enrichment, r.params.HintBonusWeight)

	matched := r.matchExisting(candidate, existing)
	visitCount := 0
	if matched != nil {
		visit := &models.Visit{
			ID:        uuid.NewString(),
			PlaceID:   matched.ID,
			EntryTime: candidate.FirstSeenTS,
			ExitTime:  &candidate.LastSeenTS,
		}
		if result := r.validator.ValidateVisit(*visit, time.Now()); !result.OK() {
			log.Printf("[DetectionRunner] Skipping invalid visit on place %s: %+v", matched.ID, result.Errors())
		} else if err := r.store.RecordVisit(ctx, visit); err != nil {
			return fmt.Errorf("failed to record visit: %w", err)
		} else {
			matched.VisitCount++
			summary.VisitsAccrued++
		}
		visitCount = matched.VisitCount
	}

	d := r.decider.Decide(decision.Input{
		Candidate:  *candidate,
		Score:      score,
		VisitCount: visitCount,
		Enrichment: enrichment,
	})

	switch d.Outcome {
	case decision.OutcomeAutoAccept:
		summary.Accepted++
		return r.persistAccepted(ctx, candidate, score, d, enrichment, matched, existing)
	case decision.OutcomeNeedsReview:
		summary.NeedsReview++
		if matched != nil {
			// At most one active review per place; a pending match already has one
			return nil
		}
		return r.persistPending(ctx, candidate, score, d, enrichment, existing)
	default:
		summary.Rejected++
		return nil
	}
}

// persistAccepted creates or promotes an auto-accepted place
func (r *Runner) persistAccepted(ctx context.Context, candidate *models.PlaceCandidate, score scoring.Result, d decision.Decision, enrichment *models.EnrichmentResult, matched *models.Place, existing []models.Place) error {
	if matched != nil {
		matched.Status = models.PlaceStatusActive
		if d.Confidence > matched.Confidence {
			matched.Confidence = d.Confidence
		}
		if err := r.store.UpdatePlace(ctx, matched); err != nil {
			return fmt.Errorf("failed to update place %s: %w", matched.ID, err)
		}
		return nil
	}

	place := r.newPlace(candidate, score, d, enrichment, models.PlaceStatusActive)
	r.logProximityFindings(place, existing)

	if err := r.store.CreatePlace(ctx, place); err != nil {
		return fmt.Errorf("failed to create place: %w", err)
	}
	return nil
}

// persistPending creates a pending place together with its review record
func (r *Runner) persistPending(ctx context.Context, candidate *models.PlaceCandidate, score scoring.Result, d decision.Decision, enrichment *models.EnrichmentResult, existing []models.Place) error {
	place := r.newPlace(candidate, score, d, enrichment, models.PlaceStatusPendingReview)
	r.logProximityFindings(place, existing)

	reviewRecord := &models.PlaceReview{
		ID:                  uuid.NewString(),
		PlaceID:             place.ID,
		Status:              models.ReviewStatusPending,
		Priority:            review.DerivePriority(d.Confidence, place.Category),
		ConfidenceBreakdown: d.Breakdown,
	}

	if err := r.store.CreatePendingPlace(ctx, place, reviewRecord); err != nil {
		return fmt.Errorf("failed to enqueue place for review: %w", err)
	}
	return nil
}

// newPlace builds a Place record from a candidate and its decision
func (r *Runner) newPlace(candidate *models.PlaceCandidate, score scoring.Result, d decision.Decision, enrichment *models.EnrichmentResult, status models.PlaceStatus) *models.Place {
	name := fmt.Sprintf("Detected place (%.5f, %.5f)", candidate.CentroidLat, candidate.CentroidLon)
	if enrichment != nil && enrichment.DisplayName != "" {
		name = enrichment.DisplayName
	}

	return &models.Place{
		ID:           uuid.NewString(),
		Name:         name,
		Category:     score.Category,
		CentroidLat:  candidate.CentroidLat,
		CentroidLon:  candidate.CentroidLon,
		RadiusMeters: candidate.RadiusMeters,
		Confidence:   d.Confidence,
		VisitCount:   1,
		Status:       status,
	}
}

// matchExisting returns the nearest existing place within the match radius
func (r *Runner) matchExisting(candidate *models.PlaceCandidate, existing []models.Place) *models.Place {
	var best *models.Place
	bestDist := r.params.MatchRadiusM

	for i := range existing {
		place := &existing[i]
		dist := spatial.HaversineDistance(candidate.CentroidLat, candidate.CentroidLon, place.CentroidLat, place.CentroidLon)
		if dist <= bestDist {
			best = place
			bestDist = dist
		}
	}
	return best
}

// lookupEnrichment queries the optional enrichment collaborator; any failure
// degrades to "no signal"
func (r *Runner) lookupEnrichment(ctx context.Context, lat, lon float64) *models.EnrichmentResult {
	if r.enricher == nil {
		return nil
	}

	result, err := r.enricher.Lookup(ctx, lat, lon)
	if err != nil {
		log.Printf("[DetectionRunner] Enrichment lookup failed, proceeding without signal: %v", err)
		return nil
	}
	return result
}

// logProximityFindings surfaces too-close and duplicate warnings; nothing is
// merged automatically
func (r *Runner) logProximityFindings(place *models.Place, existing []models.Place) {
	result := r.validator.ValidatePlaceProximity(*place, existing)
	for _, finding := range result.Findings {
		log.Printf("[DetectionRunner] %s: %s (suggested action: %s)", finding.Code, finding.Message, finding.SuggestedAction)
	}
}

// dropInvalidSequences validates each UTC day's fixes and rejects days whose
// sequence has ERROR findings, keeping the rest of the batch
func (r *Runner) dropInvalidSequences(fixes []models.LocationFix) ([]models.LocationFix, int) {
	if len(fixes) == 0 {
		return fixes, 0
	}

	byDay := make(map[string][]models.LocationFix)
	var days []string
	for _, fix := range fixes {
		day := time.Unix(fix.TimestampUTC, 0).UTC().Format("2006-01-02")
		if _, seen := byDay[day]; !seen {
			days = append(days, day)
		}
		byDay[day] = append(byDay[day], fix)
	}
	sort.Strings(days)

	var kept []models.LocationFix
	dropped := 0
	for _, day := range days {
		sequence := byDay[day]
		result := r.validator.ValidateSequence(sequence)
		if !result.OK() {
			log.Printf("[DetectionRunner] Rejecting sequence for %s: %+v", day, result.Errors())
			dropped++
			continue
		}
		for _, finding := range result.Findings {
			log.Printf("[DetectionRunner] Sequence %s: %s %s", day, finding.Code, finding.Message)
		}
		kept = append(kept, sequence...)
	}
	return kept, dropped
}
