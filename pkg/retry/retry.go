package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Multiplier of 1 gives a fixed delay.
	Multiplier float64
	// Retryable overrides IsTransient when set.
	Retryable func(error) bool
}

// DefaultConfig suits waiting for a database that is still starting.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 5,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Multiplier:  2,
	}
}

// ExponentialBackoff retries an operation while its errors look transient.
type ExponentialBackoff struct {
	config *Config
}

// NewExponentialBackoff applies defaults when config is nil.
func NewExponentialBackoff(config *Config) *ExponentialBackoff {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	return &ExponentialBackoff{config: config}
}

// Execute stops at the first success, the first non-transient error, when ctx
// is done, or after MaxAttempts calls.
func (eb *ExponentialBackoff) Execute(ctx context.Context, fn func() error) error {
	retryable := eb.config.Retryable
	if retryable == nil {
		retryable = IsTransient
	}

	var lastErr error
	for attempt := 1; attempt <= eb.config.MaxAttempts; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
		if attempt == eb.config.MaxAttempts {
			break
		}
		if err := sleep(ctx, eb.calculateDelay(attempt)); err != nil {
			return err
		}
	}

	return &MaxRetriesExceededError{LastError: lastErr, MaxAttempts: eb.config.MaxAttempts}
}

func (eb *ExponentialBackoff) calculateDelay(attempt int) time.Duration {
	delay := float64(eb.config.BaseDelay) * math.Pow(eb.config.Multiplier, float64(attempt-1))
	return time.Duration(math.Min(delay, float64(eb.config.MaxDelay)))
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Postgres SQLSTATEs raised while the server is starting, stopping or full.
var transientSQLStates = map[string]struct{}{
	"57P03": {}, // cannot_connect_now
	"53300": {}, // too_many_connections
	"08006": {}, // connection_failure
	"08001": {}, // sqlclient_unable_to_establish_sqlconnection
}

var transientFragments = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"no such host",
	"the database system is starting up",
}

// IsTransient reports whether err is likely to go away on its own.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := transientSQLStates[pgErr.Code]
		return ok
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range transientFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

type MaxRetriesExceededError struct {
	LastError   error
	MaxAttempts int
}

func (e *MaxRetriesExceededError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.MaxAttempts, e.LastError)
}

func (e *MaxRetriesExceededError) Unwrap() error {
	return e.LastError
}

func IsMaxRetriesExceeded(err error) bool {
	var target *MaxRetriesExceededError
	return errors.As(err, &target)
}
