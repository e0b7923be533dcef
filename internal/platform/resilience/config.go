package resilience

import "time"

// CircuitBreakerConfig is loaded from DB_CIRCUIT_* environment variables.
// Zero or negative numbers fall back to the defaults.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	// HalfOpenMaxReq is both the probe concurrency and the number of
	// successful probes needed to close again.
	HalfOpenMaxReq int
}

var defaultBreaker = CircuitBreakerConfig{
	Enabled:          true,
	FailureThreshold: 5,
	OpenTimeout:      15 * time.Second,
	HalfOpenMaxReq:   2,
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return defaultBreaker
}

// Normalize fills unset limits from the defaults; Enabled is kept as given.
func (c CircuitBreakerConfig) Normalize() CircuitBreakerConfig {
	c.FailureThreshold = positiveOr(c.FailureThreshold, defaultBreaker.FailureThreshold)
	c.HalfOpenMaxReq = positiveOr(c.HalfOpenMaxReq, defaultBreaker.HalfOpenMaxReq)
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaultBreaker.OpenTimeout
	}
	return c
}

func positiveOr(v, fallback int) int {
	if v < 1 {
		return fallback
	}
	return v
}
