package review

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jengzang/places-backend-go/internal/learning"
	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/validation"
)

// ErrInvalidTransition is returned when a decision is applied to a review
// that is not pending
var ErrInvalidTransition = errors.New("review is not pending")

// PlaceStore is the subset of place persistence the workflow needs
type PlaceStore interface {
	GetPlace(ctx context.Context, id string) (*models.Place, error)
	UpdatePlace(ctx context.Context, place *models.Place) error
	ListVisits(ctx context.Context, placeID string) ([]models.Visit, error)
}

// ReviewStore is the subset of review persistence the workflow needs
type ReviewStore interface {
	GetReview(ctx context.Context, id string) (*models.PlaceReview, error)
	UpdateReview(ctx context.Context, review *models.PlaceReview) error
}

// Workflow is the human-in-the-loop state machine: Pending reviews move to
// Approved, EditedApproved, or Rejected, all terminal, and only on an
// explicit human decision. Each resolution feeds the learning engine.
type Workflow struct {
	places    PlaceStore
	reviews   ReviewStore
	learner   *learning.Engine
	validator *validation.Validator
}

// NewWorkflow creates a review workflow
func NewWorkflow(places PlaceStore, reviews ReviewStore, learner *learning.Engine, validator *validation.Validator) *Workflow {
	return &Workflow{places: places, reviews: reviews, learner: learner, validator: validator}
}

// Approve accepts the place as detected. The place becomes active and the
// category earns an acceptance.
func (w *Workflow) Approve(ctx context.Context, reviewID string) error {
	review, place, err := w.loadPending(ctx, reviewID)
	if err != nil {
		return err
	}

	w.checkVisits(ctx, place)

	if err := w.learner.RecordAcceptance(place.Category); err != nil {
		return fmt.Errorf("failed to record acceptance: %w", err)
	}

	place.Status = models.PlaceStatusActive
	if err := w.places.UpdatePlace(ctx, place); err != nil {
		return fmt.Errorf("failed to activate place: %w", err)
	}

	return w.resolve(ctx, review, models.ReviewStatusApproved)
}

// EditApprove accepts the place with a corrected category and/or name.
// A category change feeds a correction into the learning engine before the
// review is marked approved; a name-only edit counts as an acceptance.
func (w *Workflow) EditApprove(ctx context.Context, reviewID string, newCategory models.Category, newName string) error {
	if !newCategory.IsValid() {
		return fmt.Errorf("invalid category %q", newCategory)
	}

	review, place, err := w.loadPending(ctx, reviewID)
	if err != nil {
		return err
	}

	w.checkVisits(ctx, place)

	if newCategory != place.Category {
		if err := w.learner.RecordCorrection(place.ID, place.Category, newCategory); err != nil {
			return fmt.Errorf("failed to record correction: %w", err)
		}
	} else {
		if err := w.learner.RecordAcceptance(place.Category); err != nil {
			return fmt.Errorf("failed to record acceptance: %w", err)
		}
	}

	place.Category = newCategory
	if newName != "" {
		place.Name = newName
	}
	place.Status = models.PlaceStatusActive
	if err := w.places.UpdatePlace(ctx, place); err != nil {
		return fmt.Errorf("failed to activate place: %w", err)
	}

	return w.resolve(ctx, review, models.ReviewStatusEditedApproved)
}

// Reject discards the detection. The category earns a rejection and the
// place is marked rejected, signaling it for deletion.
func (w *Workflow) Reject(ctx context.Context, reviewID string) error {
	review, place, err := w.loadPending(ctx, reviewID)
	if err != nil {
		return err
	}

	if err := w.learner.RecordRejection(place.Category); err != nil {
		return fmt.Errorf("failed to record rejection: %w", err)
	}

	place.Status = models.PlaceStatusRejected
	if err := w.places.UpdatePlace(ctx, place); err != nil {
		return fmt.Errorf("failed to mark place rejected: %w", err)
	}

	return w.resolve(ctx, review, models.ReviewStatusRejected)
}

// DerivePriority maps confidence and category onto a review priority from
// 1 (highest) to 5. Low-confidence detections are reviewed first; HOME and
// WORK get a nudge since misclassifying them is most visible.
func DerivePriority(confidence float64, category models.Category) int {
	priority := 4
	switch {
	case confidence < 0.3:
		priority = 1
	case confidence < 0.5:
		priority = 2
	case confidence < 0.7:
		priority = 3
	}

	if (category == models.CategoryHome || category == models.CategoryWork) && priority > 1 {
		priority--
	}
	return priority
}

// loadPending fetches the review and its place, rejecting terminal reviews
func (w *Workflow) loadPending(ctx context.Context, reviewID string) (*models.PlaceReview, *models.Place, error) {
	review, err := w.reviews.GetReview(ctx, reviewID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load review %s: %w", reviewID, err)
	}
	if review == nil {
		return nil, nil, fmt.Errorf("review %s not found", reviewID)
	}
	if review.Status != models.ReviewStatusPending {
		return nil, nil, fmt.Errorf("%w: review %s is %s", ErrInvalidTransition, reviewID, review.Status)
	}

	place, err := w.places.GetPlace(ctx, review.PlaceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load place %s: %w", review.PlaceID, err)
	}
	if place == nil {
		return nil, nil, fmt.Errorf("place %s not found for review %s", review.PlaceID, reviewID)
	}

	return review, place, nil
}

// checkVisits runs visit validation for transparency; findings are logged,
// never blocking
func (w *Workflow) checkVisits(ctx context.Context, place *models.Place) {
	visits, err := w.places.ListVisits(ctx, place.ID)
	if err != nil {
		log.Printf("[ReviewWorkflow] Failed to load visits for place %s: %v", place.ID, err)
		return
	}

	now := time.Now()
	for _, visit := range visits {
		result := w.validator.ValidateVisit(visit, now)
		for _, finding := range result.Findings {
			log.Printf("[ReviewWorkflow] Visit %s on place %s: %s %s", visit.ID, place.ID, finding.Code, finding.Message)
		}
	}
}

// resolve marks the review terminal
func (w *Workflow) resolve(ctx context.Context, review *models.PlaceReview, status models.ReviewStatus) error {
	review.Status = status
	review.ResolvedAt = time.Now().Unix()
	if err := w.reviews.UpdateReview(ctx, review); err != nil {
		return fmt.Errorf("failed to resolve review %s: %w", review.ID, err)
	}

	log.Printf("[ReviewWorkflow] Review %s resolved as %s", review.ID, status)
	return nil
}
