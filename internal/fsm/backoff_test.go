package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalcBackoffZeroAttempt(t *testing.T) {
	t.Parallel()

	for _, seed := range []float64{0, 0.25, 0.5, 0.999} {
		assert.Zero(t, CalcBackoff(0, seed, DefaultMaxBackoffMillis), "seed %v", seed)
		assert.Zero(t, DefaultBackoff(0, seed), "seed %v", seed)
	}
}

func TestCalcBackoff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		attempt int
		seed    float64
		max     float64
		want    float64
	}{
		{name: "first attempt", attempt: 1, seed: 0, max: 30000, want: 1000},
		{name: "quadratic growth", attempt: 4, seed: 0, max: 30000, want: 16000},
		{name: "capped", attempt: 6, seed: 0, max: 30000, want: 30000},
		{name: "jitter on first attempt", attempt: 1, seed: 0.5, max: 30000, want: 2000},
		{name: "jitter added after cap", attempt: 10, seed: 0.5, max: 30000, want: 31000},
		{name: "raised cap", attempt: 6, seed: 0.5, max: 60000, want: 37000},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, CalcBackoff(tt.attempt, tt.seed, tt.max), 1e-9)
		})
	}
}

func TestCalcBackoffJitterIsAdditive(t *testing.T) {
	t.Parallel()

	for attempt := 1; attempt <= 10; attempt++ {
		for _, seed := range []float64{0.1, 0.5, 0.9} {
			want := CalcBackoff(attempt, 0, DefaultMaxBackoffMillis) + 2000*seed
			assert.InDelta(t, want, CalcBackoff(attempt, seed, DefaultMaxBackoffMillis), 1e-9)
		}
	}
}

func BenchmarkCalcBackoff(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = DefaultBackoff(i%10, 0.5)
	}
}
