package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/service"
	"github.com/jengzang/places-backend-go/pkg/response"
)

// PlaceHandler handles HTTP requests for places and visits
type PlaceHandler struct {
	service *service.PlaceService
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(service *service.PlaceService) *PlaceHandler {
	return &PlaceHandler{service: service}
}

// GetPlaces handles GET /api/v1/places
func (h *PlaceHandler) GetPlaces(c *gin.Context) {
	var filter models.PlaceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	if filter.Category != "" && !models.Category(filter.Category).IsValid() {
		response.BadRequest(c, "Unknown category: "+filter.Category)
		return
	}

	result, err := h.service.GetPlaces(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get places", err)
		return
	}

	response.Success(c, result)
}

// GetPlaceByID handles GET /api/v1/places/:id
func (h *PlaceHandler) GetPlaceByID(c *gin.Context) {
	place, err := h.service.GetPlaceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			response.NotFound(c, "Place not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to get place", err)
		return
	}

	response.Success(c, place)
}

// DeletePlace handles DELETE /api/v1/places/:id
func (h *PlaceHandler) DeletePlace(c *gin.Context) {
	if err := h.service.DeletePlace(c.Request.Context(), c.Param("id")); err != nil {
		if strings.Contains(err.Error(), "not found") {
			response.NotFound(c, "Place not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to delete place", err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// GetVisits handles GET /api/v1/places/:id/visits
func (h *PlaceHandler) GetVisits(c *gin.Context) {
	visits, err := h.service.GetVisits(c.Request.Context(), c.Param("id"))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			response.NotFound(c, "Place not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to get visits", err)
		return
	}

	response.Success(c, gin.H{
		"data":  visits,
		"total": len(visits),
	})
}

// IngestFixes handles POST /api/v1/fixes
func (h *PlaceHandler) IngestFixes(c *gin.Context) {
	var req struct {
		Fixes []models.LocationFix `json:"fixes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	count, err := h.service.IngestFixes(c.Request.Context(), req.Fixes)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Failed to ingest fixes", err)
		return
	}

	response.Success(c, gin.H{"ingested": count})
}
