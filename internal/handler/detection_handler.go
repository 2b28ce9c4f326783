package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/places-backend-go/internal/service"
	"github.com/jengzang/places-backend-go/pkg/response"
)

// DetectionHandler handles HTTP requests for detection runs
type DetectionHandler struct {
	service *service.DetectionService
}

// NewDetectionHandler creates a new detection handler
func NewDetectionHandler(service *service.DetectionService) *DetectionHandler {
	return &DetectionHandler{service: service}
}

// StartRun handles POST /api/v1/detection/runs
func (h *DetectionHandler) StartRun(c *gin.Context) {
	var req struct {
		LookbackHours int `json:"lookbackHours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.LookbackHours == 0 {
		req.LookbackHours = 24 * 30
	}

	run, err := h.service.StartRun(c.Request.Context(), req.LookbackHours)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Failed to start detection run", err)
		return
	}

	response.Success(c, run)
}

// GetRun handles GET /api/v1/detection/runs/:id
func (h *DetectionHandler) GetRun(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid run ID", err)
		return
	}

	run, err := h.service.GetRun(c.Request.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			response.NotFound(c, "Detection run not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to get detection run", err)
		return
	}

	response.Success(c, run)
}

// ListRuns handles GET /api/v1/detection/runs
func (h *DetectionHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	runs, err := h.service.ListRuns(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list detection runs", err)
		return
	}

	response.Success(c, gin.H{
		"data":  runs,
		"total": len(runs),
	})
}
