package detector

import (
	"math/rand"
	"strings"
)

// PhantomProfile describes the standby behavior derived for an appliance:
// the wattage it draws while nominally off and the chance of exhibiting
// that draw in any idle minute. Both are recomputed per synthesis run,
// never stored.
type PhantomProfile struct {
	PhantomPower       float64
	PhantomProbability float64
}

type phantomRule struct {
	keywords []string
	minWatt  float64
	maxWatt  float64
	prob     float64
}

// Ordered appliance-class rules; first match wins. Refrigerators and air
// conditioners are compressor-cycled loads, not phantom loads, so they
// always map to zero.
var phantomRules = []phantomRule{
	{[]string{"television", "tv"}, 8, 15, 0.7},
	{[]string{"computer", "laptop", "desktop", "pc"}, 3, 10, 0.6},
	{[]string{"charger", "phone"}, 1, 5, 0.9},
	{[]string{"microwave"}, 2, 7, 0.6},
	{[]string{"washer", "dryer", "washing"}, 1, 5, 0.3},
	{[]string{"refrigerator", "fridge", "freezer"}, 0, 0, 0},
	{[]string{"air conditioner", "air-conditioner", "aircon", "a/c"}, 0, 0, 0},
	{[]string{"light", "lamp", "bulb"}, 0.5, 2, 0.2},
}

// MapProfile looks up the phantom draw range and occurrence probability for
// an appliance by case-insensitive substring match against the rule table,
// sampling the power uniformly from the matched range. Unmatched appliances
// fall back to a wattage-tiered default. Never fails.
func MapProfile(name string, ratedWatt float64, rng *rand.Rand) PhantomProfile {
	lower := strings.ToLower(name)
	for _, rule := range phantomRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				if rule.maxWatt == 0 {
					return PhantomProfile{}
				}
				return PhantomProfile{
					PhantomPower:       uniform(rng, rule.minWatt, rule.maxWatt),
					PhantomProbability: rule.prob,
				}
			}
		}
	}

	// Wattage-tiered default for appliances the table doesn't know.
	switch {
	case ratedWatt > 500:
		return PhantomProfile{PhantomPower: uniform(rng, 5, 10), PhantomProbability: 0.5}
	case ratedWatt >= 100:
		return PhantomProfile{PhantomPower: uniform(rng, 3, 7), PhantomProbability: 0.5}
	default:
		return PhantomProfile{PhantomPower: uniform(rng, 2, 5), PhantomProbability: 0.5}
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
