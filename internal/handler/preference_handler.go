package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/service"
	"github.com/jengzang/places-backend-go/pkg/response"
)

// PreferenceHandler handles HTTP requests for learned category preferences
type PreferenceHandler struct {
	service *service.PreferenceService
}

// NewPreferenceHandler creates a new preference handler
func NewPreferenceHandler(service *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{service: service}
}

// GetPreferences handles GET /api/v1/preferences
func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	prefs := h.service.GetPreferences()
	response.Success(c, gin.H{
		"data":  prefs,
		"total": len(prefs),
	})
}

// GetPreference handles GET /api/v1/preferences/:category
func (h *PreferenceHandler) GetPreference(c *gin.Context) {
	category := models.Category(c.Param("category"))
	if !category.IsValid() {
		response.BadRequest(c, "Unknown category: "+c.Param("category"))
		return
	}

	pref, ok := h.service.GetPreference(category)
	if !ok {
		response.NotFound(c, "No preference recorded for category")
		return
	}

	response.Success(c, pref)
}

// GetCorrections handles GET /api/v1/preferences/corrections
func (h *PreferenceHandler) GetCorrections(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	corrections, err := h.service.ListCorrections(limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get corrections", err)
		return
	}

	response.Success(c, gin.H{
		"data":  corrections,
		"total": len(corrections),
	})
}
