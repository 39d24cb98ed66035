package domain

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// Randomizer draws the simulation's random values. It is not safe for
// concurrent use.
type Randomizer struct {
	rng *rand.Rand
}

// NewRandomizer returns a Randomizer seeded with seed, or with the current
// time when seed is 0.
func NewRandomizer(seed int64) *Randomizer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Randomizer{rng: rand.New(rand.NewSource(seed))}
}

// Between draws uniformly from [min, max] rounded to decimals places.
func (r *Randomizer) Between(min, max float64, decimals int32) float64 {
	return Round(r.rng.Float64()*(max-min)+min, decimals)
}

// Jitter perturbs base by up to pct percent of itself in either direction.
// Successive jitters are independent and may drift.
func (r *Randomizer) Jitter(base, pct float64, decimals int32) float64 {
	delta := base * pct / 100
	return Round(base+(r.rng.Float64()-0.5)*2*delta, decimals)
}

// Trend draws a trend with roughly equal odds.
func (r *Randomizer) Trend() Trend {
	v := r.rng.Float64()
	switch {
	case v < 0.33:
		return TrendUp
	case v < 0.66:
		return TrendDown
	default:
		return TrendFlat
	}
}

// Round rounds v half away from zero to decimals places.
func Round(v float64, decimals int32) float64 {
	return decimal.NewFromFloat(v).Round(decimals).InexactFloat64()
}

func round0(v float64) float64 { return Round(v, 0) }
func round1(v float64) float64 { return Round(v, 1) }
