package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestQuote_BaseCalculation tests the fare formula against known trips
func TestQuote_BaseCalculation(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	tests := []struct {
		name       string
		distanceKM float64
		stops      int
		expected   int64
	}{
		{
			name:       "10km no stops",
			distanceKM: 10,
			stops:      0,
			expected:   150, // 30 + 10*12 + 0
		},
		{
			name:       "5km two stops",
			distanceKM: 5,
			stops:      2,
			expected:   110, // 30 + 5*12 + 2*10
		},
		{
			name:       "short hop single stop",
			distanceKM: 1.5,
			stops:      1,
			expected:   58, // 30 + 18 + 10
		},
		{
			name:       "fractional distance rounds to nearest unit",
			distanceKM: 2.4,
			stops:      0,
			expected:   59, // 30 + 28.8 = 58.8
		},
		{
			name:       "half unit rounds away from zero",
			distanceKM: 0.125,
			stops:      0,
			expected:   32, // 30 + 1.5 = 31.5
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price := calc.Quote(tt.distanceKM, tt.stops)
			assert.Equal(t, tt.expected, price, "Price should match expected value")
		})
	}
}

// TestQuote_Deterministic tests that repeated quotes never drift
func TestQuote_Deterministic(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	first := calc.Quote(7.3, 3)
	for i := 0; i < 1000; i++ {
		assert.Equal(t, first, calc.Quote(7.3, 3), "Same inputs must always produce the same price")
	}
}

// TestQuote_CustomRates tests quoting with non-default rates
func TestQuote_CustomRates(t *testing.T) {
	calc := NewCalculator(Config{
		BaseFare:    50,
		PerKMRate:   10,
		PerStopRate: 5,
	})

	assert.Equal(t, int64(165), calc.Quote(10, 3)) // 50 + 100 + 15
}

// TestDefaultConfig_Rates pins the production rates
func TestDefaultConfig_Rates(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, float64(30), cfg.BaseFare)
	assert.Equal(t, float64(12), cfg.PerKMRate)
	assert.Equal(t, float64(10), cfg.PerStopRate)
}

// BenchmarkQuote benchmarks fare calculation
func BenchmarkQuote(b *testing.B) {
	calc := NewCalculator(DefaultConfig())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		calc.Quote(10.0, 2)
	}
}
