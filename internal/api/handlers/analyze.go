package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltaware/phantomwatt/internal/services"
)

// AnalyzeHandler serves per-appliance analysis requests.
type AnalyzeHandler struct {
	svc *services.DetectionService
}

func NewAnalyzeHandler(svc *services.DetectionService) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc}
}

// AnalyzeRequest is the analysis endpoint's request body.
type AnalyzeRequest struct {
	ApplianceName string    `json:"appliance_name"`
	PowerValues   []float64 `json:"power_values" binding:"required"`
}

// Analyze classifies an appliance's power series and returns energy waste
// estimates with recommendations. Unlike detection, this endpoint does
// reject bad input: without a real series there is nothing to analyze.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "power_values is required"})
		return
	}

	analysis, err := h.svc.AnalyzeAppliance(c.Request.Context(), req.ApplianceName, req.PowerValues)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, analysis)
}
