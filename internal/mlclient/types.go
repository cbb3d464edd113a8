package mlclient

import (
	"errors"

	"github.com/voltaware/phantomwatt/internal/models"
)

// ErrServiceUnavailable signals that the classification service could not
// produce a result (transport failure, timeout, or non-success status).
// It is never fatal: callers fall back to the local heuristic classifier.
var ErrServiceUnavailable = errors.New("classification service unavailable")

// PredictRequest is the request body for the service's /predict endpoint.
type PredictRequest struct {
	PowerValues []float64 `json:"power_values"`
	Threshold   float64   `json:"threshold"`
}

// predictResponse mirrors the service's response. Pointer fields
// distinguish absent fields, which are substituted with locally-computed
// defaults during mapping.
type predictResponse struct {
	PhantomPercentage *float64  `json:"phantom_percentage"`
	PhantomDetected   *bool     `json:"phantom_detected"`
	TotalReadings     *int      `json:"total_readings"`
	PhantomCount      *int      `json:"phantom_count"`
	Predictions       []int     `json:"predictions"`
	Probabilities     []float64 `json:"probabilities"`
}

// toDetectionResult maps the wire response onto the canonical result shape,
// filling any absent field with its local default.
func (r *predictResponse) toDetectionResult(powerValues []float64) models.DetectionResult {
	result := models.DetectionResult{
		TotalReadings: len(powerValues),
		Predictions:   []int{},
		Probabilities: []float64{},
	}
	if r.PhantomPercentage != nil {
		result.PhantomPercentage = *r.PhantomPercentage
	}
	if r.PhantomDetected != nil {
		result.PhantomDetected = *r.PhantomDetected
	}
	if r.TotalReadings != nil {
		result.TotalReadings = *r.TotalReadings
	}
	if r.PhantomCount != nil {
		result.PhantomCount = *r.PhantomCount
	}
	if r.Predictions != nil {
		result.Predictions = r.Predictions
	}
	if r.Probabilities != nil {
		result.Probabilities = r.Probabilities
	}
	return result
}

// ErrorResponse is the service's error body shape.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the service's /health body shape.
type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}
