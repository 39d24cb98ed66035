package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomizerJitterBounds(t *testing.T) {
	r := NewRandomizer(42)
	for i := 0; i < 2000; i++ {
		v := r.Jitter(100, 10, 1)
		assert.GreaterOrEqual(t, v, 90.0)
		assert.LessOrEqual(t, v, 110.0)
	}
}

func TestRandomizerBetween(t *testing.T) {
	r := NewRandomizer(7)
	for i := 0; i < 2000; i++ {
		v := r.Between(2.5, 5, 1)
		assert.GreaterOrEqual(t, v, 2.5)
		assert.LessOrEqual(t, v, 5.0)
		assert.Equal(t, v, Round(v, 1), "value should carry one decimal")
	}

	for i := 0; i < 200; i++ {
		v := r.Between(45, 120, 0)
		assert.Equal(t, v, Round(v, 0))
	}
}

func TestRandomizerIsDeterministicPerSeed(t *testing.T) {
	a, b := NewRandomizer(99), NewRandomizer(99)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Jitter(40, 5, 1), b.Jitter(40, 5, 1))
		assert.Equal(t, a.Trend(), b.Trend())
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in       float64
		decimals int32
		want     float64
	}{
		{1.25, 1, 1.3},
		{1.24, 1, 1.2},
		{2.5, 0, 3},
		{-2.5, 0, -3},
		{4.005, 2, 4.01},
		{39.99999999999999, 0, 40},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round(tt.in, tt.decimals), "Round(%v, %d)", tt.in, tt.decimals)
	}
}
