// Package generate holds the error kinds shared by the dataset generators.
// Generation-stage errors abort the whole run; no partial dataset is valid.
package generate

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks a fatal configuration problem: zero-size required
// seed tables or contradictory parameters such as a fulfillment fraction
// outside [0, 1].
var ErrConfiguration = errors.New("invalid configuration")

// ErrMissingUpstream marks a declared dependency table that is absent. The
// dependent stage must fail rather than silently produce empty output.
var ErrMissingUpstream = errors.New("missing upstream table")

// ConfigErrorf wraps ErrConfiguration with a description of the offending
// parameter.
func ConfigErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// MissingTable wraps ErrMissingUpstream with the name of the absent table.
func MissingTable(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingUpstream, name)
}
