package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFatigueFactor(t *testing.T) {
	cases := []struct {
		name  string
		plays int64
		wins  int64
		want  float64
	}{
		{name: "fresh customer", plays: 0, wins: 0, want: 1},
		{name: "at threshold", plays: 5, wins: 0, want: 1},
		{name: "first excess play", plays: 6, wins: 0, want: 0.90},
		{name: "seven plays one win", plays: 7, wins: 1, want: 0.704},
		{name: "play penalty capped", plays: 200, wins: 0, want: 0.5},
		{name: "win penalty capped", plays: 0, wins: 10, want: 0.4},
		{name: "both capped", plays: 500, wins: 50, want: 0.2},
		{name: "negative inputs clamped", plays: -3, wins: -1, want: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, FatigueFactor(tc.plays, tc.wins), 1e-9)
		})
	}
}

func TestFatigueFactorMonotonicAndFloored(t *testing.T) {
	for wins := int64(0); wins <= 6; wins++ {
		previous := math.Inf(1)
		for plays := int64(0); plays <= 60; plays++ {
			got := FatigueFactor(plays, wins)
			assert.LessOrEqual(t, got, previous, "plays=%d wins=%d", plays, wins)
			assert.GreaterOrEqual(t, got, fatigueFloor)
			assert.LessOrEqual(t, got, 1.0)
			previous = got
		}
	}
	for plays := int64(0); plays <= 60; plays += 7 {
		previous := math.Inf(1)
		for wins := int64(0); wins <= 10; wins++ {
			got := FatigueFactor(plays, wins)
			assert.LessOrEqual(t, got, previous, "plays=%d wins=%d", plays, wins)
			previous = got
		}
	}
}

func TestPacingFactor(t *testing.T) {
	cases := []struct {
		name     string
		used     int64
		total    int64
		assigned int64
		stock    int64
		want     float64
	}{
		{name: "no tokens used", used: 0, total: 100, assigned: 0, stock: 10, want: PacingNeutral},
		{name: "no tokens planned", used: 10, total: 0, assigned: 1, stock: 10, want: PacingNeutral},
		{name: "no prize stock", used: 10, total: 100, assigned: 0, stock: 0, want: PacingNeutral},
		{name: "on pace", used: 50, total: 100, assigned: 50, stock: 100, want: PacingNeutral},
		{name: "exactly 1.3", used: 10, total: 100, assigned: 13, stock: 100, want: PacingThrottle},
		{name: "above 1.3", used: 10, total: 100, assigned: 14, stock: 100, want: PacingThrottleHard},
		{name: "exactly 1.15", used: 20, total: 100, assigned: 23, stock: 100, want: PacingNeutral},
		{name: "above 1.15", used: 10, total: 100, assigned: 12, stock: 100, want: PacingThrottle},
		{name: "exactly 0.85", used: 20, total: 100, assigned: 17, stock: 100, want: PacingNeutral},
		{name: "below 0.85", used: 10, total: 100, assigned: 8, stock: 100, want: PacingBoost},
		{name: "exactly 0.7", used: 10, total: 100, assigned: 7, stock: 100, want: PacingBoost},
		{name: "below 0.7", used: 10, total: 100, assigned: 6, stock: 100, want: PacingBoostHard},
		{name: "nothing assigned yet", used: 30, total: 100, assigned: 0, stock: 100, want: PacingBoostHard},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PacingFactor(tc.used, tc.total, tc.assigned, tc.stock))
		})
	}
}

func TestPacingFactorOnlyReturnsKnownSteps(t *testing.T) {
	allowed := map[float64]bool{
		PacingThrottleHard: true,
		PacingThrottle:     true,
		PacingNeutral:      true,
		PacingBoost:        true,
		PacingBoostHard:    true,
	}
	for used := int64(0); used <= 100; used += 3 {
		for assigned := int64(0); assigned <= 40; assigned++ {
			got := PacingFactor(used, 100, assigned, 40)
			assert.True(t, allowed[got], "unexpected pacing %v for used=%d assigned=%d", got, used, assigned)
		}
	}
}

func TestComputeModifiers(t *testing.T) {
	got := ComputeModifiers(7, 1, 10, 100, 6, 100)
	assert.InDelta(t, 0.704, got.Fatigue, 1e-9)
	assert.Equal(t, PacingBoostHard, got.Pacing)
	assert.InDelta(t, 0.704*1.4, got.Global, 1e-9)
}
