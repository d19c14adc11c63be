package audio

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/sony/gobreaker"
)

// BreakerProvider stops calling a backend after consecutive failures.
// It wraps the provider when failed rows are skipped instead of aborting.
type BreakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerProvider trips after maxFailures consecutive failures
func NewBreakerProvider(p Provider, maxFailures uint32) *BreakerProvider {
	if maxFailures == 0 {
		maxFailures = 1
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        p.Name(),
		MaxRequests: 1,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("audio backend state changed", "provider", name, "from", from.String(), "to", to.String())
		},
	})

	return &BreakerProvider{inner: p, cb: cb}
}

// Synthesize runs the wrapped provider through the circuit breaker
func (b *BreakerProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Synthesize(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s: %v", ErrBackendUnavailable, b.inner.Name(), err)
		}
		return nil, err
	}

	data, _ := out.([]byte)
	return data, nil
}

// Name returns the wrapped provider name
func (b *BreakerProvider) Name() string {
	return b.inner.Name()
}

// Extension returns the wrapped provider extension
func (b *BreakerProvider) Extension() string {
	return b.inner.Extension()
}

// IsAvailable delegates to the wrapped provider
func (b *BreakerProvider) IsAvailable() error {
	return b.inner.IsAvailable()
}

// Close closes the wrapped provider when it holds resources
func (b *BreakerProvider) Close() error {
	if c, ok := b.inner.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
