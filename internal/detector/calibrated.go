package detector

import (
	"math"
	"math/rand"
)

// DefaultTargetPercent is the calibrated synthesizer's target when the
// caller does not request one.
const DefaultTargetPercent = 20.0

// SynthesizeCalibrated engineers a day of readings so that the heuristic
// classifier, run over them afterwards, detects approximately targetPercent
// of them as phantom load. Phantom readings are drawn from the typical
// standby band U(5,15); active readings from a low/medium/high mixture.
// The combined sequence is shuffled, then perturbed with a per-reading base
// and noise, so the realized percentage only approximates the target.
func SynthesizeCalibrated(targetPercent float64, rng *rand.Rand) []float64 {
	targetPercent = math.Max(0, math.Min(100, targetPercent))

	phantomCount := int(math.Round(SeriesLength * targetPercent / 100))
	activeCount := SeriesLength - phantomCount

	series := make([]float64, 0, SeriesLength)
	for i := 0; i < phantomCount; i++ {
		series = append(series, uniform(rng, 5, 15))
	}
	for i := 0; i < activeCount; i++ {
		switch r := rng.Float64(); {
		case r < 0.3:
			series = append(series, uniform(rng, 20, 50))
		case r < 0.7:
			series = append(series, uniform(rng, 50, 150))
		default:
			series = append(series, uniform(rng, 150, 300))
		}
	}

	rng.Shuffle(len(series), func(i, j int) {
		series[i], series[j] = series[j], series[i]
	})

	for i := range series {
		v := series[i] + uniform(rng, 20, 30) + uniform(rng, -2.5, 2.5)
		series[i] = math.Round(math.Max(0, v))
	}

	return series
}
