package detector

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestMapProfile_KnownAppliances(t *testing.T) {
	rng := newTestRand()

	tests := []struct {
		name     string
		watt     float64
		minPower float64
		maxPower float64
		prob     float64
	}{
		{"Living Room Television", 120, 8, 15, 0.7},
		{"Gaming Laptop", 180, 3, 10, 0.6},
		{"Phone Charger", 20, 1, 5, 0.9},
		{"Microwave Oven", 1100, 2, 7, 0.6},
		{"Washing Machine", 500, 1, 5, 0.3},
		{"LED Light Strip", 15, 0.5, 2, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := MapProfile(tt.name, tt.watt, rng)
			assert.GreaterOrEqual(t, profile.PhantomPower, tt.minPower)
			assert.LessOrEqual(t, profile.PhantomPower, tt.maxPower)
			assert.Equal(t, tt.prob, profile.PhantomProbability)
		})
	}
}

func TestMapProfile_CompressorLoadsAreNeverPhantom(t *testing.T) {
	rng := newTestRand()

	for _, name := range []string{"Refrigerator", "Mini Fridge", "Chest Freezer", "Air Conditioner", "Bedroom aircon"} {
		profile := MapProfile(name, 1500, rng)
		assert.Zero(t, profile.PhantomPower, name)
		assert.Zero(t, profile.PhantomProbability, name)
	}
}

func TestMapProfile_CaseInsensitive(t *testing.T) {
	rng := newTestRand()

	upper := MapProfile("TELEVISION", 100, rng)
	assert.Equal(t, 0.7, upper.PhantomProbability)
}

func TestMapProfile_FirstMatchWins(t *testing.T) {
	rng := newTestRand()

	// Matches both the television and computer rules; television is first.
	profile := MapProfile("TV Computer Combo", 150, rng)
	assert.Equal(t, 0.7, profile.PhantomProbability)
}

func TestMapProfile_WattageTieredDefault(t *testing.T) {
	rng := newTestRand()

	tests := []struct {
		watt     float64
		minPower float64
		maxPower float64
	}{
		{800, 5, 10},
		{250, 3, 7},
		{40, 2, 5},
	}

	for _, tt := range tests {
		profile := MapProfile("Mystery Gadget", tt.watt, rng)
		assert.GreaterOrEqual(t, profile.PhantomPower, tt.minPower)
		assert.LessOrEqual(t, profile.PhantomPower, tt.maxPower)
		assert.Equal(t, 0.5, profile.PhantomProbability)
	}
}
