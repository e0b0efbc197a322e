package screengrab

import (
	"net/http"
	"strconv"
	"time"
)

// Rate-limit response headers.
const (
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitReset     = "X-RateLimit-Reset"
	headerRetryAfter         = "Retry-After"
)

// RateLimit is the last-known state of the service's rate-limit window,
// parsed from response headers. Fields are nil when the corresponding
// header was absent from the response that produced the snapshot.
type RateLimit struct {
	// Limit is the total number of requests allowed in the window.
	Limit *int

	// Remaining is the number of requests left in the window.
	Remaining *int

	// Reset is when the window resets.
	Reset *time.Time
}

// UntilReset returns the time remaining until the window resets, or zero
// when the reset time is unknown or already past.
func (r *RateLimit) UntilReset() time.Duration {
	if r == nil || r.Reset == nil {
		return 0
	}
	d := time.Until(*r.Reset)
	if d < 0 {
		return 0
	}
	return d
}

// parseRateLimit builds a snapshot from whichever rate-limit headers are
// present and parse as integers. Returns nil when none do, so callers can
// leave prior state untouched.
func parseRateLimit(h http.Header) *RateLimit {
	var rl RateLimit
	present := false

	if v, err := strconv.Atoi(h.Get(headerRateLimitLimit)); err == nil {
		rl.Limit = &v
		present = true
	}
	if v, err := strconv.Atoi(h.Get(headerRateLimitRemaining)); err == nil {
		rl.Remaining = &v
		present = true
	}
	if v, err := strconv.ParseInt(h.Get(headerRateLimitReset), 10, 64); err == nil {
		t := time.Unix(v, 0)
		rl.Reset = &t
		present = true
	}

	if !present {
		return nil
	}
	return &rl
}

// parseRetryAfter reads a Retry-After header given in integer seconds.
// Returns zero when absent or not an integer.
func parseRetryAfter(h http.Header) time.Duration {
	v, err := strconv.Atoi(h.Get(headerRetryAfter))
	if err != nil || v < 0 {
		return 0
	}
	return time.Duration(v) * time.Second
}
