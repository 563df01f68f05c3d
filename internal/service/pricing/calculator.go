package pricing

import "math"

// Config holds the fare rates. Rates are currency-agnostic integer units.
type Config struct {
	BaseFare    float64
	PerKMRate   float64
	PerStopRate float64
}

// DefaultConfig returns the production rates.
func DefaultConfig() Config {
	return Config{
		BaseFare:    30,
		PerKMRate:   12,
		PerStopRate: 10,
	}
}

// Calculator computes ride prices. It is pure: no I/O, no clock, the same
// inputs always produce the same price.
type Calculator struct {
	config Config
}

// NewCalculator creates a calculator with the given rates.
func NewCalculator(config Config) *Calculator {
	return &Calculator{config: config}
}

// Quote returns the price for a trip, rounded half away from zero to the
// nearest integer unit. The price is computed once at booking and never
// recomputed afterwards. Callers must reject non-positive distances before
// calling; Quote does not validate.
func (c *Calculator) Quote(distanceKM float64, stopCount int) int64 {
	total := c.config.BaseFare + distanceKM*c.config.PerKMRate + float64(stopCount)*c.config.PerStopRate
	return int64(math.Round(total))
}
