package services

import (
	"context"
	"math"

	"github.com/voltaware/phantomwatt/internal/detector"
)

// SampleMetadata summarizes a sample dataset payload.
type SampleMetadata struct {
	TotalReadings     int     `json:"total_readings"`
	PhantomCount      int     `json:"phantom_count"`
	PhantomPercentage float64 `json:"phantom_percentage"`
	AveragePower      float64 `json:"average_power"`
	MinPower          float64 `json:"min_power"`
	MaxPower          float64 `json:"max_power"`
}

// SampleDataResponse is the labeled dataset handed to demo clients, with
// aggregate metadata precomputed so the frontend does not have to.
type SampleDataResponse struct {
	PowerValues []float64      `json:"power_values"`
	Labels      []int          `json:"labels"`
	Metadata    SampleMetadata `json:"metadata"`
	Simulated   bool           `json:"simulated,omitempty"`
}

// SampleData returns the bundled labeled dataset. If the file is unreadable
// the response degrades to a freshly synthesized calibrated day whose labels
// come from the rule-based classifier, flagged simulated.
func (s *DetectionService) SampleData(ctx context.Context) *SampleDataResponse {
	dataset, err := detector.LoadSampleDataset(s.cfg.Dataset.Path)
	if err != nil {
		s.logger.WithError(err).Warn("Sample dataset unavailable, synthesizing a calibrated day")
		rng := s.newRand()
		power := detector.SynthesizeCalibrated(s.defaultTargetPercent(), rng)
		result := detector.NewClassifier(rng).Classify(power)
		return &SampleDataResponse{
			PowerValues: power,
			Labels:      result.Predictions,
			Metadata:    sampleMetadata(power, result.Predictions),
			Simulated:   true,
		}
	}

	return &SampleDataResponse{
		PowerValues: dataset.Power,
		Labels:      dataset.Labels,
		Metadata:    sampleMetadata(dataset.Power, dataset.Labels),
	}
}

func sampleMetadata(power []float64, labels []int) SampleMetadata {
	meta := SampleMetadata{TotalReadings: len(power)}
	if len(power) == 0 {
		return meta
	}

	sum := 0.0
	meta.MinPower = power[0]
	meta.MaxPower = power[0]
	for _, p := range power {
		sum += p
		meta.MinPower = math.Min(meta.MinPower, p)
		meta.MaxPower = math.Max(meta.MaxPower, p)
	}

	for _, l := range labels {
		if l == 1 {
			meta.PhantomCount++
		}
	}

	meta.PhantomPercentage = round2(100 * float64(meta.PhantomCount) / float64(len(power)))
	meta.AveragePower = round2(sum / float64(len(power)))
	meta.MinPower = round2(meta.MinPower)
	meta.MaxPower = round2(meta.MaxPower)
	return meta
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
