package platform

import (
	"errors"
	"fmt"
)

// Classification sentinels for failed queries. Callers check them with
// errors.Is; the wrapped cause remains inspectable through the chain.
var (
	// ErrUnavailable indicates the underlying OS source could not be
	// read at all: a missing /proc entry, a failed system call, an
	// unreadable registry key, a dead SSH session.
	ErrUnavailable = errors.New("platform source unavailable")

	// ErrUnrecognized indicates the OS source was read but its contents
	// did not match the expected shape: a cpuinfo without a model name,
	// a topology record of an unknown kind, unparseable command output.
	ErrUnrecognized = errors.New("platform data unrecognized")
)

// QueryError wraps a failed query with its classification.
// It preserves both the sentinel and the original cause for inspection
// via errors.Is/errors.As.
type QueryError struct {
	// Op names the failed query, e.g. "cpu architecture".
	Op string

	// Kind is ErrUnavailable or ErrUnrecognized.
	Kind error

	// Err is the underlying cause. May be nil when the source content
	// itself is the problem rather than an I/O failure.
	Err error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Kind)
}

// Unwrap returns the wrapped errors for errors.Is/errors.As support.
func (e *QueryError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// unavailable wraps err as an ErrUnavailable QueryError for op.
func unavailable(op string, err error) error {
	return &QueryError{Op: op, Kind: ErrUnavailable, Err: err}
}

// unrecognized wraps err as an ErrUnrecognized QueryError for op.
func unrecognized(op string, err error) error {
	return &QueryError{Op: op, Kind: ErrUnrecognized, Err: err}
}

// unrecognizedf builds an ErrUnrecognized QueryError from a format string.
func unrecognizedf(op, format string, args ...any) error {
	return &QueryError{Op: op, Kind: ErrUnrecognized, Err: fmt.Errorf(format, args...)}
}
