package types

import (
	"errors"
	"fmt"
)

// ValidationError is a caller-facing, pre-pipeline rejection. It carries the
// violated field so the entry layer can surface a field-specific message, and
// is distinguishable (via errors.As) from pipeline/runtime failures.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrInvalidEnergyState is the configuration error returned when an agent is
// invoked with an energy state outside the five-value enum. Agents fail fast
// on this rather than silently defaulting, since every heuristic branches on it.
var ErrInvalidEnergyState = errors.New("invalid energy state")

// ErrBackendUnavailable marks a degraded embedding/similarity dependency.
// Consumers absorb it locally (default recommendations, empty history) rather
// than propagating it to the caller.
var ErrBackendUnavailable = errors.New("embedding backend unavailable")
