package models

// DetectionResult is the single output contract for phantom-load
// classification. Every producer (heuristic classifier, external
// classifier adapter, dataset replay) emits this exact shape.
//
// Invariants, for every result:
//
//	len(Predictions) == len(Probabilities) == TotalReadings
//	PhantomCount == number of 1s in Predictions
//	PhantomPercentage == round(100*PhantomCount/TotalReadings, 1), 0 when empty
//	PhantomDetected == (PhantomCount > 0)
type DetectionResult struct {
	PhantomPercentage float64   `json:"phantom_percentage"`
	PhantomDetected   bool      `json:"phantom_detected"`
	TotalReadings     int       `json:"total_readings"`
	PhantomCount      int       `json:"phantom_count"`
	Predictions       []int     `json:"predictions"`
	Probabilities     []float64 `json:"probabilities"`
}

// DetectionEnvelope wraps a DetectionResult with provenance metadata
// describing which generation/fallback path produced it. The flags are
// additive; the numeric fields are always present and valid.
type DetectionEnvelope struct {
	DetectionResult
	Simulated               bool     `json:"simulated,omitempty"`
	Demo                    bool     `json:"demo,omitempty"`
	Fallback                bool     `json:"fallback,omitempty"`
	FromSampleData          bool     `json:"from_sample_data,omitempty"`
	TargetPhantomPercentage *float64 `json:"target_phantom_percentage,omitempty"`
	Error                   string   `json:"error,omitempty"`
}
