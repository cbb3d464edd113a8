package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltaware/phantomwatt/internal/detector"
)

func TestSampleData_FromFile(t *testing.T) {
	svc := newTestService(nil, nil, nil, "testdata/sample_data.csv")

	resp := svc.SampleData(context.Background())

	require.NotNil(t, resp)
	assert.False(t, resp.Simulated)
	require.Len(t, resp.PowerValues, 10)
	require.Len(t, resp.Labels, 10)

	assert.Equal(t, 10, resp.Metadata.TotalReadings)
	assert.Equal(t, 5, resp.Metadata.PhantomCount)
	assert.Equal(t, 50.0, resp.Metadata.PhantomPercentage)
	assert.Equal(t, 80.0, resp.Metadata.AveragePower)
	assert.Equal(t, 10.0, resp.Metadata.MinPower)
	assert.Equal(t, 150.0, resp.Metadata.MaxPower)
}

func TestSampleData_UnreadableFileSynthesizes(t *testing.T) {
	svc := newTestService(nil, nil, nil, "testdata/does_not_exist.csv")

	resp := svc.SampleData(context.Background())

	require.NotNil(t, resp)
	assert.True(t, resp.Simulated)
	require.Len(t, resp.PowerValues, detector.SeriesLength)
	require.Len(t, resp.Labels, detector.SeriesLength)

	assert.Equal(t, detector.SeriesLength, resp.Metadata.TotalReadings)

	count := 0
	for _, l := range resp.Labels {
		require.Contains(t, []int{0, 1}, l)
		if l == 1 {
			count++
		}
	}
	assert.Equal(t, count, resp.Metadata.PhantomCount)
	assert.GreaterOrEqual(t, resp.Metadata.MaxPower, resp.Metadata.AveragePower)
	assert.LessOrEqual(t, resp.Metadata.MinPower, resp.Metadata.AveragePower)
}

func TestSampleMetadata_Empty(t *testing.T) {
	meta := sampleMetadata(nil, nil)
	assert.Equal(t, 0, meta.TotalReadings)
	assert.Equal(t, 0.0, meta.PhantomPercentage)
}
