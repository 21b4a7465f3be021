package gateway

import (
	"context"
	"errors"
	"net"
)

// ErrorKind classifies a provider failure.
type ErrorKind int

const (
	// KindFatal failures are not retried.
	KindFatal ErrorKind = iota
	// KindTransient failures (rate limit, connection, timeout, server
	// error) are eligible for bounded retry.
	KindTransient
)

// Error wraps a provider failure with its retry classification.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transient marks err as retryable.
func Transient(err error) *Error {
	return &Error{Kind: KindTransient, Err: err}
}

// Fatal marks err as not retryable.
func Fatal(err error) *Error {
	return &Error{Kind: KindFatal, Err: err}
}

// IsTransient reports whether err carries the retryable classification.
func IsTransient(err error) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind == KindTransient
	}
	return false
}

// classifyStatus maps an HTTP status and underlying error to the taxonomy:
// 429 and 5xx are transient, network timeouts and connection failures are
// transient, everything else is fatal. Context cancellation stays fatal so
// an aborted run is not retried.
func classifyStatus(status int, err error) *Error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Fatal(err)
	}
	if status == 429 || status >= 500 {
		return Transient(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Transient(err)
	}
	if status == 0 {
		// No HTTP response at all: connection-level failure.
		return Transient(err)
	}
	return Fatal(err)
}
