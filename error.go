package feedbench

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCode classifies failures surfaced by transactions and adapters.
type ErrorCode int

const (
	Unknown ErrorCode = iota
	// TxFailure means a transaction could not be started.
	TxFailure
	// TxFinished means an operation was attempted on a committed or cancelled transaction.
	TxFinished
	// TxReadonly means a write or commit was attempted on a read-only transaction.
	TxReadonly
	// TypeMismatch means a decode asked for a kind other than the one stored.
	TypeMismatch
	// BackendFailure wraps an error reported by the backing store.
	BackendFailure
)

var (
	ErrTxFailure    = errors.New("there was an error when starting a new datastore transaction")
	ErrTxFinished   = errors.New("couldn't update a finished transaction")
	ErrTxReadonly   = errors.New("couldn't write to a read only transaction")
	ErrTypeMismatch = errors.New("value type mismatch")
	ErrBackend      = errors.New("backend error")
)

var codeSentinels = map[ErrorCode]error{
	TxFailure:      ErrTxFailure,
	TxFinished:     ErrTxFinished,
	TxReadonly:     ErrTxReadonly,
	TypeMismatch:   ErrTypeMismatch,
	BackendFailure: ErrBackend,
}

// Error is the feedbench custom error.
type Error struct {
	Code ErrorCode
	// Backend names the store that produced the error, if any.
	Backend string
	Err     error
}

func (e Error) Error() string {
	if e.Backend != "" {
		return fmt.Sprintf("%s: %v", e.Backend, e.Err)
	}
	if e.Err == nil {
		if s, ok := codeSentinels[e.Code]; ok {
			return s.Error()
		}
		return fmt.Sprintf("error code: %d", e.Code)
	}
	return e.Err.Error()
}

func (e Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's code so errors.Is(err, ErrTxReadonly) works
// regardless of the wrapped cause.
func (e Error) Is(target error) bool {
	s, ok := codeSentinels[e.Code]
	return ok && s == target
}

// NewError returns an Error of the given code carrying the code's sentinel.
func NewError(code ErrorCode) error {
	return Error{Code: code, Err: codeSentinels[code]}
}

// Mismatchf reports a row, filter or collection that does not fit the requested operation.
func Mismatchf(format string, args ...any) error {
	return Error{Code: TypeMismatch, Err: fmt.Errorf("%w: %s", ErrTypeMismatch, fmt.Sprintf(format, args...))}
}

// WrapBackend wraps a native backend failure, preserving backend identity and message.
// Errors already classified by this package are returned as is.
func WrapBackend(backend string, err error) error {
	if err == nil {
		return nil
	}
	var e Error
	if errors.As(err, &e) {
		return err
	}
	return Error{Code: BackendFailure, Backend: backend, Err: err}
}

// WrapTxFailure reports a failure to start a transaction on backend.
func WrapTxFailure(backend string, err error) error {
	return Error{Code: TxFailure, Backend: backend, Err: fmt.Errorf("%w: %w", ErrTxFailure, err)}
}

// ErrorCodeOf returns the code of the first Error in err's chain, or Unknown.
func ErrorCodeOf(err error) ErrorCode {
	var e Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Unknown
}

// IsRetryable reports whether retrying the whole operation with a fresh transaction may succeed.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch ErrorCodeOf(err) {
	case TxFailure, BackendFailure:
		return true
	}
	return false
}
