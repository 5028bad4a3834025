// Package httpx provides a small retrying http.RoundTripper that can serve
// as the base transport beneath the interceptor.
package httpx

import "time"

// BackoffConfig configures exponential backoff between retried requests.
type BackoffConfig struct {
	BaseDelay   time.Duration // base delay; retry n waits BaseDelay * Multiplier * 2^(n-1)
	MaxDelay    time.Duration // maximum delay cap
	Multiplier  float64       // constant factor applied to every retry delay, typically 2.0
	MaxAttempts int           // maximum number of attempts in total, including the first
}

// DefaultBackoffConfig returns sensible defaults for exponential backoff.
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		BaseDelay:   250 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Multiplier:  2.0,
		MaxAttempts: 3,
	}
}

// CalculateBackoff returns the delay before a given retry attempt.
// attempt is 1-indexed: the first retry is attempt 1.
func CalculateBackoff(config BackoffConfig, attempt int) time.Duration {
	if attempt <= 0 {
		return config.BaseDelay
	}
	if attempt > 30 { // keep the shift below 30 so it fits a 32-bit int
		attempt = 30
	}

	factor := float64(int(1)<<uint(attempt-1)) * config.Multiplier
	delay := time.Duration(float64(config.BaseDelay) * factor)
	if delay > config.MaxDelay {
		delay = config.MaxDelay
	}
	return delay
}
