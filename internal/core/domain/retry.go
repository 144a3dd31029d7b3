package domain

import "time"

// RetryPolicy governs backoff for transient page-fetch failures. The
// policy is injected so tests can substitute near-zero delays and
// exercise retry paths deterministically.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is the wait before the first retry.
	BaseDelay time.Duration

	// Multiplier scales the delay after each failed attempt.
	Multiplier float64

	// MaxDelay caps the computed delay.
	MaxDelay time.Duration
}

// DefaultRetryPolicy mirrors the API guidance: three retries starting
// at two seconds, doubling each time.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 4,
		BaseDelay:   2 * time.Second,
		Multiplier:  2.0,
		MaxDelay:    60 * time.Second,
	}
}

// Delay returns the wait before retry number attempt (1-based).
// Attempt values below one return BaseDelay.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * p.Multiplier)
		if p.MaxDelay > 0 && d > p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}
