package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/review"
	"github.com/jengzang/places-backend-go/internal/service"
	"github.com/jengzang/places-backend-go/pkg/response"
)

// ReviewHandler handles HTTP requests for the review queue
type ReviewHandler struct {
	service *service.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// GetPending handles GET /api/v1/reviews/pending
func (h *ReviewHandler) GetPending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	reviews, err := h.service.ListPending(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get pending reviews", err)
		return
	}

	response.Success(c, gin.H{
		"data":  reviews,
		"total": len(reviews),
	})
}

// GetReview handles GET /api/v1/reviews/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	rev, err := h.service.GetReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			response.NotFound(c, "Review not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to get review", err)
		return
	}

	response.Success(c, rev)
}

// Approve handles POST /api/v1/reviews/:id/approve
func (h *ReviewHandler) Approve(c *gin.Context) {
	h.resolve(c, func() error {
		return h.service.Approve(c.Request.Context(), c.Param("id"))
	})
}

// EditApprove handles POST /api/v1/reviews/:id/edit-approve
func (h *ReviewHandler) EditApprove(c *gin.Context) {
	var req struct {
		Category string `json:"category" binding:"required"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	category := models.Category(req.Category)
	if !category.IsValid() {
		response.BadRequest(c, "Unknown category: "+req.Category)
		return
	}

	h.resolve(c, func() error {
		return h.service.EditApprove(c.Request.Context(), c.Param("id"), category, req.Name)
	})
}

// Reject handles POST /api/v1/reviews/:id/reject
func (h *ReviewHandler) Reject(c *gin.Context) {
	h.resolve(c, func() error {
		return h.service.Reject(c.Request.Context(), c.Param("id"))
	})
}

func (h *ReviewHandler) resolve(c *gin.Context, fn func() error) {
	if err := fn(); err != nil {
		switch {
		case errors.Is(err, review.ErrInvalidTransition):
			response.Error(c, http.StatusConflict, "Review already resolved", err)
		case strings.Contains(err.Error(), "not found"):
			response.NotFound(c, "Review not found")
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to resolve review", err)
		}
		return
	}

	response.Success(c, gin.H{"resolved": true})
}
