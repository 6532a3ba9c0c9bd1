package models

import (
	"math"
	"slices"
	"time"
)

// RetryPolicy bounds how recoverable node failures are retried.
type RetryPolicy struct {
	MaxRetries        int           `json:"max_retries"        validate:"min=0"`
	InitialDelay      time.Duration `json:"initial_delay"`
	MaxDelay          time.Duration `json:"max_delay"`
	BackoffMultiplier float64       `json:"backoff_multiplier" validate:"omitempty,gte=1"`
	RetryableErrors   []string      `json:"retryable_errors"`
}

// DefaultRetryPolicy returns the policy used when the caller supplies none.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:        3,
		InitialDelay:      time.Second,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2.0,
		RetryableErrors:   []string{ErrCodeTimeout, ErrCodeNetworkError, ErrCodeRateLimited},
	}
}

// Delay computes the backoff before retry attempt n (zero-based):
// min(initial * multiplier^n, max). Non-decreasing in n until the cap.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	multiplier := p.BackoffMultiplier
	if multiplier < 1 {
		multiplier = 1
	}

	delay := time.Duration(float64(p.InitialDelay) * math.Pow(multiplier, float64(attempt)))
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		return p.MaxDelay
	}

	return delay
}

// IsRetryable reports whether the error code is in the policy's retry set.
func (p RetryPolicy) IsRetryable(code string) bool {
	return slices.Contains(p.RetryableErrors, code)
}
