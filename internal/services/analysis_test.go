package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/voltaware/phantomwatt/internal/detector"
	"github.com/voltaware/phantomwatt/internal/models"
)

func repeatedSeries(value float64, n int) []float64 {
	series := make([]float64, n)
	for i := range series {
		series[i] = value
	}
	return series
}

func TestAnalyzeAppliance_RejectsShortSeries(t *testing.T) {
	svc := newTestService(nil, nil, nil, "testdata/sample_data.csv")

	_, err := svc.AnalyzeAppliance(context.Background(), "TV", repeatedSeries(10, MinAnalysisReadings-1))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "need at least")
}

func TestAnalyzeAppliance_ExternalResultEnergyFigures(t *testing.T) {
	power := repeatedSeries(8, 60)

	predictions := make([]int, 60)
	probabilities := make([]float64, 60)
	for i := range predictions {
		predictions[i] = 1
		probabilities[i] = 0.9
	}

	predictor := &mockPredictor{}
	predictor.On("Predict", mock.Anything, mock.Anything).
		Return(detector.BuildResult(predictions, probabilities), nil)

	svc := newTestService(nil, nil, predictor, "testdata/sample_data.csv")

	analysis, err := svc.AnalyzeAppliance(context.Background(), "TV", power)
	require.NoError(t, err)

	assert.Equal(t, "TV", analysis.ApplianceName)
	assert.True(t, analysis.PhantomDetected)
	assert.Equal(t, 100.0, analysis.PhantomPercentage)
	assert.Equal(t, 60, analysis.TotalReadingsAnalyzed)
	assert.False(t, analysis.Fallback)

	avg, _ := analysis.AveragePhantomPowerW.Float64()
	assert.InDelta(t, 8.0, avg, 0.001)

	// 8W held for 60 phantom minutes is 8 Wh.
	energy, _ := analysis.EstimatedPhantomEnergyWh.Float64()
	assert.InDelta(t, 8.0, energy, 0.001)

	// Full-time 8W over a 720-hour month is 5.76 kWh.
	monthly, _ := analysis.ProjectedMonthlyKWh.Float64()
	assert.InDelta(t, 5.76, monthly, 0.001)

	require.NotEmpty(t, analysis.Recommendations)
	assert.Contains(t, analysis.Recommendations[0], "High phantom load")
}

func TestAnalyzeAppliance_HeuristicFallback(t *testing.T) {
	predictor := &mockPredictor{}
	predictor.On("Predict", mock.Anything, mock.Anything).
		Return(models.DetectionResult{}, errors.New("service down"))

	svc := newTestService(nil, nil, predictor, "testdata/sample_data.csv")

	// 10W sits in the standby band, so every reading classifies phantom.
	analysis, err := svc.AnalyzeAppliance(context.Background(), "Charger", repeatedSeries(10, 60))
	require.NoError(t, err)

	assert.True(t, analysis.Fallback)
	assert.True(t, analysis.PhantomDetected)
	assert.Equal(t, 100.0, analysis.PhantomPercentage)

	avg, _ := analysis.AveragePhantomPowerW.Float64()
	assert.InDelta(t, 10.0, avg, 0.001)
}

func TestAnalyzeAppliance_NoPhantom(t *testing.T) {
	power := repeatedSeries(150, 60)

	predictions := make([]int, 60)
	probabilities := make([]float64, 60)
	for i := range probabilities {
		probabilities[i] = 0.05
	}

	predictor := &mockPredictor{}
	predictor.On("Predict", mock.Anything, mock.Anything).
		Return(detector.BuildResult(predictions, probabilities), nil)

	svc := newTestService(nil, nil, predictor, "testdata/sample_data.csv")

	analysis, err := svc.AnalyzeAppliance(context.Background(), "Refrigerator", power)
	require.NoError(t, err)

	assert.False(t, analysis.PhantomDetected)
	assert.True(t, analysis.AveragePhantomPowerW.IsZero())
	assert.True(t, analysis.EstimatedPhantomEnergyWh.IsZero())
	assert.True(t, analysis.ProjectedMonthlyKWh.IsZero())
	assert.Contains(t, analysis.Recommendations[0], "No significant phantom load")
}

func TestAnalyzeAppliance_DefaultsName(t *testing.T) {
	predictor := &mockPredictor{}
	predictor.On("Predict", mock.Anything, mock.Anything).
		Return(models.DetectionResult{}, errors.New("service down"))

	svc := newTestService(nil, nil, predictor, "testdata/sample_data.csv")

	analysis, err := svc.AnalyzeAppliance(context.Background(), "", repeatedSeries(150, 60))
	require.NoError(t, err)
	assert.Equal(t, "Unknown Appliance", analysis.ApplianceName)
}

func TestAnalyzeAppliance_WindowedPredictionsAreBoundsChecked(t *testing.T) {
	power := repeatedSeries(12, 120)

	// External classifiers that window their input return fewer
	// predictions than readings.
	predictions := []int{1, 1, 0}
	probabilities := []float64{0.9, 0.8, 0.1}

	predictor := &mockPredictor{}
	predictor.On("Predict", mock.Anything, mock.Anything).
		Return(detector.BuildResult(predictions, probabilities), nil)

	svc := newTestService(nil, nil, predictor, "testdata/sample_data.csv")

	analysis, err := svc.AnalyzeAppliance(context.Background(), "TV", power)
	require.NoError(t, err)

	avg, _ := analysis.AveragePhantomPowerW.Float64()
	assert.InDelta(t, 12.0, avg, 0.001)
	assert.Equal(t, 3, analysis.TotalReadingsAnalyzed)
}

func TestRecommendationTiers(t *testing.T) {
	tests := []struct {
		name         string
		phantomCount int
		total        int
		wantFirst    string
	}{
		{"high", 60, 100, "High phantom load detected! Consider using a smart plug with scheduling."},
		{"moderate", 30, 100, "Moderate phantom load detected."},
		{"low", 5, 100, "Low phantom load detected."},
		{"none", 0, 100, "No significant phantom load detected."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := recommendations(tt.phantomCount, tt.total)
			require.NotEmpty(t, recs)
			assert.Equal(t, tt.wantFirst, recs[0])
		})
	}
}
