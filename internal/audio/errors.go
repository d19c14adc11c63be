package audio

import (
	"errors"
	"fmt"
)

// ErrMissingDependency is returned when a backend binary or credential is absent
var ErrMissingDependency = errors.New("missing dependency")

// ErrBackendUnavailable is returned once the circuit breaker has opened
var ErrBackendUnavailable = errors.New("audio backend unavailable")

// SynthesisError reports a failed synthesis for one phrase
type SynthesisError struct {
	Provider string
	Text     string
	Err      error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("%s failed to synthesize %q: %v", e.Provider, e.Text, e.Err)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}

func missing(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMissingDependency, fmt.Sprintf(format, args...))
}
