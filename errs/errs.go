// Package errs defines the error kinds surfaced by the physics engine's
// public API: InvalidArgument for rejected inputs, InvalidState for state
// machine violations. Callers distinguish kinds with errors.Is against the
// exported sentinels; call-site detail is attached with Wrap.
package errs

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks a rejected input: a null shape, a negative
// damping coefficient, a shape-pair the narrow phase cannot classify.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInvalidState marks a rejected operation on the world or a body's
// bookkeeping: body id overflow, removing a joint that is not present.
var ErrInvalidState = errors.New("invalid state")

// Wrap attaches call-site detail to a sentinel kind so that the result
// remains errors.Is-comparable to kind while carrying a human readable
// message.
func Wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// InvalidArgument wraps ErrInvalidArgument with call-site detail.
func InvalidArgument(format string, args ...any) error {
	return Wrap(ErrInvalidArgument, format, args...)
}

// InvalidState wraps ErrInvalidState with call-site detail.
func InvalidState(format string, args ...any) error {
	return Wrap(ErrInvalidState, format, args...)
}
