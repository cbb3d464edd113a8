package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// MinAnalysisReadings is the smallest power series the analyzer accepts.
// One hour of minute readings is the minimum needed for the energy figures
// to mean anything.
const MinAnalysisReadings = 60

// ApplianceAnalysis is the per-appliance insight report: classification
// aggregates plus energy waste estimates and actionable recommendations.
// Monetary-adjacent figures (watts, watt-hours, kWh) are computed with
// decimal arithmetic and rounded to two places.
type ApplianceAnalysis struct {
	ApplianceName            string          `json:"appliance_name"`
	PhantomDetected          bool            `json:"phantom_detected"`
	PhantomPercentage        float64         `json:"phantom_percentage"`
	AveragePhantomPowerW     decimal.Decimal `json:"average_phantom_power_w"`
	EstimatedPhantomEnergyWh decimal.Decimal `json:"estimated_phantom_energy_wh"`
	ProjectedMonthlyKWh      decimal.Decimal `json:"projected_monthly_kwh"`
	TotalReadingsAnalyzed    int             `json:"total_readings_analyzed"`
	Fallback                 bool            `json:"fallback,omitempty"`
	Recommendations          []string        `json:"recommendations"`
}

// AnalyzeAppliance classifies an appliance's power series and derives waste
// estimates from the phantom readings. The external classifier is preferred;
// its unavailability degrades to the rule-based classifier and is flagged.
func (s *DetectionService) AnalyzeAppliance(ctx context.Context, applianceName string, powerValues []float64) (*ApplianceAnalysis, error) {
	if len(powerValues) < MinAnalysisReadings {
		return nil, fmt.Errorf("need at least %d readings, got %d", MinAnalysisReadings, len(powerValues))
	}
	if applianceName == "" {
		applianceName = "Unknown Appliance"
	}

	rng := s.newRand()
	result, fellBack := s.classify(ctx, powerValues, rng)

	avgPhantomPower := averagePhantomPower(powerValues, result.Predictions)

	// Minute readings: watts held for a minute are watt-hours / 60.
	energyWh := avgPhantomPower.
		Mul(decimal.NewFromInt(int64(result.PhantomCount))).
		Div(decimal.NewFromInt(60))

	monthlyKWh := projectedMonthlyKWh(avgPhantomPower, result.PhantomCount, result.TotalReadings)

	return &ApplianceAnalysis{
		ApplianceName:            applianceName,
		PhantomDetected:          result.PhantomDetected,
		PhantomPercentage:        result.PhantomPercentage,
		AveragePhantomPowerW:     avgPhantomPower.Round(2),
		EstimatedPhantomEnergyWh: energyWh.Round(2),
		ProjectedMonthlyKWh:      monthlyKWh.Round(2),
		TotalReadingsAnalyzed:    result.TotalReadings,
		Fallback:                 fellBack,
		Recommendations:          recommendations(result.PhantomCount, result.TotalReadings),
	}, nil
}

// averagePhantomPower is the mean power across readings classified phantom.
// The prediction slice may be shorter than the power series when the
// external classifier windows its input, so indexing is bounds-checked.
func averagePhantomPower(powerValues []float64, predictions []int) decimal.Decimal {
	sum := decimal.Zero
	n := 0
	for i, pred := range predictions {
		if pred == 1 && i < len(powerValues) {
			sum = sum.Add(decimal.NewFromFloat(powerValues[i]))
			n++
		}
	}
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n)))
}

// projectedMonthlyKWh extrapolates the observed phantom share to a 30-day
// month: average phantom draw, weighted by the fraction of time it occurs,
// over 720 hours.
func projectedMonthlyKWh(avgPhantomPower decimal.Decimal, phantomCount, totalReadings int) decimal.Decimal {
	if totalReadings == 0 || phantomCount == 0 {
		return decimal.Zero
	}
	share := decimal.NewFromInt(int64(phantomCount)).Div(decimal.NewFromInt(int64(totalReadings)))
	return avgPhantomPower.
		Mul(share).
		Mul(decimal.NewFromInt(720)).
		Div(decimal.NewFromInt(1000))
}

// recommendations maps the phantom share to advice tiers.
func recommendations(phantomCount, totalReadings int) []string {
	var phantomPercentage float64
	if totalReadings > 0 {
		phantomPercentage = 100 * float64(phantomCount) / float64(totalReadings)
	}

	switch {
	case phantomPercentage > 50:
		return []string{
			"High phantom load detected! Consider using a smart plug with scheduling.",
			"This appliance may be drawing significant standby power.",
			"Unplug when not in use or use a power strip with an off switch.",
		}
	case phantomPercentage > 20:
		return []string{
			"Moderate phantom load detected.",
			"Consider using a timer or smart plug to reduce standby power.",
			"Check if the appliance has an eco mode or power-saving settings.",
		}
	case phantomCount > 0:
		return []string{
			"Low phantom load detected.",
			"Standby power is minimal but could still be optimized.",
			"Consider grouping appliances on a single controllable power strip.",
		}
	default:
		return []string{
			"No significant phantom load detected.",
			"This appliance appears to be energy efficient in standby mode.",
		}
	}
}
