// Package errors defines the fault taxonomy for the event listener and the
// bench tool, plus a retry helper for transient failures.
//
// Only two fault kinds terminate a listen session: a failed connection
// attempt and a transport fault during receive. Decode and handler faults
// are recovered where they occur and never escape their scope.
package errors

import (
	"errors"
	"net"
)

// Category represents how a fault is handled.
type Category int

const (
	// CategoryTerminal faults end the listen session with a failure status.
	CategoryTerminal Category = iota

	// CategoryRecoverable faults are reported at the point of occurrence
	// and processing continues.
	CategoryRecoverable

	// CategoryTransient faults are worth retrying.
	// Examples: HTTP 429/5xx, temporary network errors.
	CategoryTransient
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTerminal:
		return "terminal"
	case CategoryRecoverable:
		return "recoverable"
	case CategoryTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Categorize determines how a fault should be handled.
func Categorize(err error) Category {
	if err == nil {
		return CategoryRecoverable
	}

	var connErr *ConnectError
	if errors.As(err, &connErr) {
		return CategoryTerminal
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return CategoryTerminal
	}

	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return CategoryRecoverable
	}

	var handlerErr *HandlerError
	if errors.As(err, &handlerErr) {
		return CategoryRecoverable
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == 429:
			return CategoryTransient
		case httpErr.StatusCode >= 500:
			return CategoryTransient
		default:
			return CategoryRecoverable
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryTransient
	}

	return CategoryRecoverable
}

// Terminal reports whether the fault ends a listen session.
func Terminal(err error) bool {
	return err != nil && Categorize(err) == CategoryTerminal
}

// IsRetryable reports whether the fault should be retried.
func IsRetryable(err error) bool {
	return Categorize(err) == CategoryTransient
}
