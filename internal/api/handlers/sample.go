package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltaware/phantomwatt/internal/services"
)

// SampleHandler serves the bundled labeled dataset for demos and frontends.
type SampleHandler struct {
	svc *services.DetectionService
}

func NewSampleHandler(svc *services.DetectionService) *SampleHandler {
	return &SampleHandler{svc: svc}
}

// Sample returns the labeled sample dataset with aggregate metadata. An
// unreadable dataset file degrades to a synthesized day, never an error.
func (h *SampleHandler) Sample(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.SampleData(c.Request.Context()))
}
