package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/cmartindale/warmup-prometheus-exporter/pkg/warmup"
	"github.com/sony/gobreaker"
)

// CircuitBreakerConfig configures the circuit breaker behavior
type CircuitBreakerConfig struct {
	// MaxConsecutiveFailures is the number of consecutive failures before opening
	MaxConsecutiveFailures uint32
	// Timeout is how long the circuit breaker stays open before trying half-open
	Timeout time.Duration
}

// DefaultCircuitBreakerConfig returns sensible defaults
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		MaxConsecutiveFailures: 5,
		Timeout:                30 * time.Second,
	}
}

// CircuitBreakerState represents the circuit breaker state
type CircuitBreakerState int

// Circuit breaker states
const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

// circuitBreakerAPI wraps WarmupAPI with circuit breaker protection.
// A skipped call (nil response, nil error) counts as a success: the client
// is reachable, it just has no session yet.
type circuitBreakerAPI struct {
	api      WarmupAPI
	breaker  *gobreaker.CircuitBreaker
	timeout  time.Duration
	lastErr  error
	lastTime time.Time
}

// NewWarmupAPIWithCircuitBreaker wraps a WarmupAPI with circuit breaker protection
func NewWarmupAPIWithCircuitBreaker(api WarmupAPI, config CircuitBreakerConfig) WarmupAPI {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "WarmupAPI",
		MaxRequests: 1,
		Interval:    config.Timeout,
		Timeout:     2 * config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.MaxConsecutiveFailures
		},
	})

	return &circuitBreakerAPI{
		api:     api,
		breaker: cb,
		timeout: config.Timeout,
	}
}

// GetStatus implements WarmupAPI.GetStatus with circuit breaker protection
func (cb *circuitBreakerAPI) GetStatus(ctx context.Context) (*warmup.QueryResponse, error) {
	result, err := cb.breaker.Execute(func() (interface{}, error) {
		return cb.api.GetStatus(ctx)
	})

	if err != nil {
		cb.lastErr = err
		cb.lastTime = time.Now()
		return nil, cb.wrapError(err)
	}

	// A skipped call comes back as a typed nil pointer; pass it through as-is
	qr, _ := result.(*warmup.QueryResponse)
	return qr, nil
}

// wrapError converts circuit breaker errors to user-friendly messages
func (cb *circuitBreakerAPI) wrapError(err error) error {
	if err == gobreaker.ErrOpenState {
		return fmt.Errorf("circuit breaker is open: Warmup API is temporarily unavailable (will retry after %v)", cb.timeout)
	}

	if err == gobreaker.ErrTooManyRequests {
		return fmt.Errorf("circuit breaker is half-open: testing API recovery")
	}

	return err
}

// State returns the current circuit breaker state
func (cb *circuitBreakerAPI) State() CircuitBreakerState {
	switch cb.breaker.State() {
	case gobreaker.StateClosed:
		return CircuitClosed
	case gobreaker.StateOpen:
		return CircuitOpen
	case gobreaker.StateHalfOpen:
		return CircuitHalfOpen
	default:
		return CircuitClosed
	}
}

// LastError returns the last error that occurred
func (cb *circuitBreakerAPI) LastError() error {
	return cb.lastErr
}

// LastErrorTime returns when the last error occurred
func (cb *circuitBreakerAPI) LastErrorTime() time.Time {
	return cb.lastTime
}
