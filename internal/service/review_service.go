package service

import (
	"context"

	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/repository"
	"github.com/jengzang/places-backend-go/internal/review"
)

// ReviewService exposes the review queue and resolution operations. All
// state transitions go through the workflow so learning signals fire
// exactly once per resolution.
type ReviewService struct {
	reviews  *repository.ReviewRepository
	workflow *review.Workflow
}

// NewReviewService creates a new review service
func NewReviewService(reviews *repository.ReviewRepository, workflow *review.Workflow) *ReviewService {
	return &ReviewService{reviews: reviews, workflow: workflow}
}

// ListPending retrieves the pending review queue ordered by priority
func (s *ReviewService) ListPending(ctx context.Context, limit int) ([]models.PlaceReview, error) {
	return s.reviews.ListPending(ctx, limit)
}

// GetReview retrieves a single review
func (s *ReviewService) GetReview(ctx context.Context, id string) (*models.PlaceReview, error) {
	return s.reviews.GetReview(ctx, id)
}

// Approve resolves a pending review by accepting the place as detected
func (s *ReviewService) Approve(ctx context.Context, id string) error {
	return s.workflow.Approve(ctx, id)
}

// EditApprove resolves a pending review by accepting the place with
// corrections applied
func (s *ReviewService) EditApprove(ctx context.Context, id string, category models.Category, name string) error {
	return s.workflow.EditApprove(ctx, id, category, name)
}

// Reject resolves a pending review by rejecting the place
func (s *ReviewService) Reject(ctx context.Context, id string) error {
	return s.workflow.Reject(ctx, id)
}
