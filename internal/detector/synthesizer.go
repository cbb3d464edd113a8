package detector

import (
	"math"
	"math/rand"

	"github.com/voltaware/phantomwatt/internal/models"
)

const (
	// SeriesLength is one reading per minute over a 24h day.
	SeriesLength = 1440

	// baseLoadWatts is the always-on household load (router, smoke
	// detectors, doorbell transformer and the like).
	baseLoadWatts = 30.0

	peakWindowHours    = 14.0 // 08:00-22:00
	offPeakWindowHours = 10.0 // 22:00-08:00
)

type incidentalLoad struct {
	watts float64
	prob  float64
}

// Common standby loads rolled independently during night minutes,
// regardless of the caller's inventory.
var nightIncidentals = []incidentalLoad{
	{watts: 8, prob: 0.7}, // TV standby
	{watts: 3, prob: 0.9}, // phone chargers
	{watts: 5, prob: 0.6}, // game console standby
	{watts: 4, prob: 0.5}, // display clocks
}

// SynthesizeHousehold builds a representative day of per-minute power
// readings from an appliance inventory. Each appliance is scheduled
// stochastically from its peak/off-peak hour budgets; idle appliances may
// contribute phantom draw per their mapped profile. The output is always
// exactly SeriesLength non-negative integer-valued readings. Successive
// calls produce numerically distinct series by design.
func SynthesizeHousehold(appliances []models.Appliance, rng *rand.Rand) []float64 {
	type scheduled struct {
		appliance models.Appliance
		profile   PhantomProfile
	}

	enriched := make([]scheduled, 0, len(appliances))
	for _, a := range appliances {
		enriched = append(enriched, scheduled{
			appliance: a,
			profile:   MapProfile(a.Name, a.RatedWatt, rng),
		})
	}

	series := make([]float64, SeriesLength)
	for m := 0; m < SeriesLength; m++ {
		hour := m / 60
		isNight := hour >= 22 || hour < 6
		isPeakWindow := hour >= 8 && hour < 22

		total := baseLoadWatts

		for _, s := range enriched {
			a := s.appliance

			var activeProb float64
			if isPeakWindow {
				activeProb = math.Min(1, a.PeakUsageHours/peakWindowHours) * 0.7
			} else {
				activeProb = math.Min(1, a.OffPeakUsageHours/offPeakWindowHours) * 0.6
			}

			if activeProb > 0 && rng.Float64() < activeProb {
				total += a.RatedWatt * float64(a.Quantity) * uniform(rng, 0.9, 1.1)
				continue
			}

			phantomProb := s.profile.PhantomProbability
			if isNight {
				phantomProb = math.Min(1, phantomProb*1.5)
			}
			if phantomProb > 0 && rng.Float64() < phantomProb {
				total += s.profile.PhantomPower * float64(a.Quantity) * uniform(rng, 0.8, 1.2)
			}
		}

		if isNight {
			for _, inc := range nightIncidentals {
				if rng.Float64() < inc.prob {
					total += inc.watts
				}
			}
		}

		total += uniform(rng, -5, 5)
		series[m] = math.Round(math.Max(0, total))
	}

	return series
}
