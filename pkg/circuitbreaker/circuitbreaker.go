package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// CircuitState is the current circuit breaker state.
type CircuitState int

const (
	// Closed allows requests to pass through
	Closed CircuitState = iota
	// Open blocks all requests
	Open
	// HalfOpen allows limited requests to test recovery
	HalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker guards calls and opens the circuit after repeated failures.
type CircuitBreaker interface {
	Call(func() error) error
	State() CircuitState
	Metrics() Metrics
	Reset()
}

type Config struct {
	FailureThreshold int           // Consecutive failures before opening
	RecoveryTimeout  time.Duration // Time to wait before trying HalfOpen
	SuccessThreshold int           // Successes needed to close from HalfOpen

	// OnStateChange, if set, is invoked outside the lock after every transition.
	OnStateChange func(from, to CircuitState)
	// Now overrides the clock in tests.
	Now func() time.Time
}

func DefaultConfig() *Config {
	return &Config{
		FailureThreshold: 5,
		RecoveryTimeout:  30 * time.Second,
		SuccessThreshold: 1,
	}
}

// Metrics exposes current state and counters.
type Metrics struct {
	State        CircuitState
	FailureCount int
	SuccessCount int
	LastFailure  time.Time
	NextAttempt  time.Time
}

type transition struct {
	from, to CircuitState
}

type circuitBreaker struct {
	config      *Config
	state       CircuitState
	failures    int
	successes   int
	lastFailure time.Time
	nextAttempt time.Time
	mutex       sync.Mutex
}

// NewCircuitBreaker returns a circuit breaker and applies defaults when config is nil.
func NewCircuitBreaker(config *Config) CircuitBreaker {
	if config == nil {
		config = DefaultConfig()
	}
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = DefaultConfig().FailureThreshold
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &circuitBreaker{
		config: config,
		state:  Closed,
	}
}

func (cb *circuitBreaker) Call(fn func() error) error {
	cb.mutex.Lock()
	allowed, moved := cb.allowRequest()
	cb.mutex.Unlock()
	cb.notify(moved)

	if !allowed {
		return ErrCircuitOpen
	}

	// fn runs without the lock held.
	err := fn()

	cb.mutex.Lock()
	if err != nil {
		moved = cb.recordFailure()
	} else {
		moved = cb.recordSuccess()
	}
	cb.mutex.Unlock()
	cb.notify(moved)

	return err
}

func (cb *circuitBreaker) State() CircuitState {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

func (cb *circuitBreaker) Metrics() Metrics {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	return Metrics{
		State:        cb.state,
		FailureCount: cb.failures,
		SuccessCount: cb.successes,
		LastFailure:  cb.lastFailure,
		NextAttempt:  cb.nextAttempt,
	}
}

func (cb *circuitBreaker) Reset() {
	cb.mutex.Lock()
	moved := cb.setState(Closed)
	cb.failures = 0
	cb.successes = 0
	cb.mutex.Unlock()
	cb.notify(moved)
}

func (cb *circuitBreaker) allowRequest() (bool, *transition) {
	var moved *transition
	if cb.state == Open && !cb.config.Now().Before(cb.nextAttempt) {
		moved = cb.setState(HalfOpen)
		cb.successes = 0
	}
	return cb.state != Open, moved
}

func (cb *circuitBreaker) recordFailure() *transition {
	cb.failures++
	cb.lastFailure = cb.config.Now()

	switch cb.state {
	case Closed:
		if cb.failures >= cb.config.FailureThreshold {
			return cb.open()
		}
	case HalfOpen:
		return cb.open()
	}
	return nil
}

func (cb *circuitBreaker) recordSuccess() *transition {
	cb.failures = 0

	if cb.state == HalfOpen {
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.successes = 0
			return cb.setState(Closed)
		}
	}
	return nil
}

func (cb *circuitBreaker) open() *transition {
	cb.nextAttempt = cb.config.Now().Add(cb.config.RecoveryTimeout)
	return cb.setState(Open)
}

func (cb *circuitBreaker) setState(to CircuitState) *transition {
	if cb.state == to {
		return nil
	}
	t := &transition{from: cb.state, to: to}
	cb.state = to
	return t
}

func (cb *circuitBreaker) notify(t *transition) {
	if t != nil && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(t.from, t.to)
	}
}
