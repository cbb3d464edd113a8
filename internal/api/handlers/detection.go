package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voltaware/phantomwatt/internal/services"
)

// DetectionHandler serves the phantom detection endpoint.
type DetectionHandler struct {
	svc *services.DetectionService
}

func NewDetectionHandler(svc *services.DetectionService) *DetectionHandler {
	return &DetectionHandler{svc: svc}
}

// Detect runs phantom detection for the caller. The endpoint always answers
// 200 with a complete result envelope; failures are absorbed into fallback
// branches by the service and surface only as provenance flags.
//
// Query parameters:
//
//	simulate - force a calibrated simulation run (authenticated callers)
//	phantom  - target phantom percentage for simulation runs
func (h *DetectionHandler) Detect(c *gin.Context) {
	req := services.DetectRequest{
		UserID: c.GetString("user_id"),
	}

	if simulate, err := strconv.ParseBool(c.Query("simulate")); err == nil {
		req.Simulate = simulate
	}

	// An unparsable, absent or negative target falls through to the
	// configured default rather than failing the request. An explicit 0
	// is a valid target (a phantom-free day) and is honored.
	if target, err := strconv.ParseFloat(c.Query("phantom"), 64); err == nil && target >= 0 {
		req.TargetPercent = &target
	}

	envelope := h.svc.Detect(c.Request.Context(), req)
	c.JSON(http.StatusOK, envelope)
}
