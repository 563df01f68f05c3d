package monitoring

import (
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Config holds New Relic configuration
type Config struct {
	LicenseKey string
	AppName    string
	Enabled    bool
}

// NewRelicApp wraps the New Relic application
type NewRelicApp struct {
	*newrelic.Application
	enabled bool
}

// New creates a new New Relic application
func New(cfg Config) (*NewRelicApp, error) {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		// Return disabled app
		return &NewRelicApp{nil, false}, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(true),
		newrelic.ConfigDistributedTracerEnabled(true),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create New Relic application: %w", err)
	}

	return &NewRelicApp{app, true}, nil
}

// RecordCustomEvent records a custom event
func (nr *NewRelicApp) RecordCustomEvent(eventType string, params map[string]interface{}) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomEvent(eventType, params)
}

// RecordCustomMetric records a custom metric
func (nr *NewRelicApp) RecordCustomMetric(name string, value float64) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomMetric(name, value)
}

// Shutdown gracefully shuts down the New Relic application
func (nr *NewRelicApp) Shutdown(timeout time.Duration) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.Shutdown(timeout)
}

// IsEnabled returns whether New Relic is enabled
func (nr *NewRelicApp) IsEnabled() bool {
	return nr.enabled
}

// Custom event helpers

// RecordRideBooked records a successful booking
func (nr *NewRelicApp) RecordRideBooked(rideID string, price int64, distanceKM float64, stops int) {
	nr.RecordCustomEvent("RideBooked", map[string]interface{}{
		"ride_id":     rideID,
		"price":       price,
		"distance_km": distanceKM,
		"stops":       stops,
	})
}

// RecordRideCancelled records a cancellation
func (nr *NewRelicApp) RecordRideCancelled(rideID string) {
	nr.RecordCustomEvent("RideCancelled", map[string]interface{}{
		"ride_id":   rideID,
		"timestamp": time.Now().Unix(),
	})
}

// RecordSignup records a new account by role
func (nr *NewRelicApp) RecordSignup(role string) {
	nr.RecordCustomMetric(fmt.Sprintf("custom/auth/signup/%s", role), 1)
}

// RecordLogin records a successful login by role
func (nr *NewRelicApp) RecordLogin(role string) {
	nr.RecordCustomMetric(fmt.Sprintf("custom/auth/login/%s", role), 1)
}
