package constants

import "time"

// RFC 3339 date-time format string.
// Use this format for all date-time serialization and communication with external systems.
const RFC3339DateTimeFormat = "2006-01-02T15:04:05Z07:00"

// RFC3339MillisFormat matches JavaScript's Date.toISOString when applied to UTC times.
const RFC3339MillisFormat = "2006-01-02T15:04:05.000Z07:00"

// Default rate limiting configuration
const (
	// DefaultRateLimitRequests is the default number of requests allowed per time window
	DefaultRateLimitRequests = 100
	// DefaultRateLimitWindowMinutes is the default time window for rate limiting
	DefaultRateLimitWindowMinutes = 1
	// DefaultSubmitRateLimitRequests bounds waitlist submissions per client per window
	DefaultSubmitRateLimitRequests = 30
)

// DefaultRateLimitWindow returns the default rate limit window duration
func DefaultRateLimitWindow() time.Duration {
	return time.Duration(DefaultRateLimitWindowMinutes) * time.Minute
}

// MaxEmailLength mirrors the width of waitlist_entries.email.
const MaxEmailLength = 255
