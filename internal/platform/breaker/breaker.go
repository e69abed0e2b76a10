package breaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

const (
	DefaultFailures = 5
	DefaultTimeout  = 30 * time.Second
)

var ErrCircuitOpen = errors.New("circuit breaker open")

type Settings struct {
	Name     string
	Failures uint32
	Timeout  time.Duration
	// OnStateChange is called after the transition has been logged.
	OnStateChange func(name string, from, to gobreaker.State)
}

// Breaker trips after Failures consecutive errors and rejects calls with ErrCircuitOpen until Timeout
// has passed. A nil *Breaker runs every call directly.
type Breaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

func New[T any](s Settings) *Breaker[T] {
	if s.Failures == 0 {
		s.Failures = DefaultFailures
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	failures := s.Failures
	notify := s.OnStateChange
	return &Breaker[T]{cb: gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			if notify != nil {
				notify(name, from, to)
			}
		},
	})}
}

func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	if b == nil {
		return fn()
	}
	result, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return result, fmt.Errorf("%s: %w", b.cb.Name(), ErrCircuitOpen)
	}
	return result, err
}

func (b *Breaker[T]) State() gobreaker.State {
	if b == nil {
		return gobreaker.StateClosed
	}
	return b.cb.State()
}

// StateValue maps a breaker state to the gauge value exported as metrics.
func StateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
