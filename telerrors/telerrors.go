package telerrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Nnenty/telers/logging"
)

// Package telerrors provides the error type used across the dispatch engine.
// Every error carries a Kind that tells which layer produced it and a
// traceback that grows as the error travels up through routers, so a failed
// update can be traced from the handler that raised it to the dispatch loop
// that logged it.
type Error interface {
	error
	Wrap(msg string) Error
	WrapWithLog(msg string, log logging.Logger) Error
	Kind() Kind
	Error() string
	Unwrap() error
	UnwrapLastError() string
}

// Kind classifies an error by the layer that produced it.
type Kind uint8

const (
	// KindInternal is an engine-internal failure that fits no other kind.
	KindInternal Kind = iota
	// KindExtraction means a handler's declared argument could not be
	// derived from the current update and context.
	KindExtraction
	// KindMiddleware wraps any error raised by or passed through a middleware.
	KindMiddleware
	// KindStorage is a serialization or backend I/O failure in FSM storage.
	KindStorage
	// KindHandler means the user-supplied handler logic itself failed.
	KindHandler
)

func (k Kind) String() string {
	switch k {
	case KindExtraction:
		return "extraction"
	case KindMiddleware:
		return "middleware"
	case KindStorage:
		return "storage"
	case KindHandler:
		return "handler"
	default:
		return "internal"
	}
}

const (
	kindSeparate  = " | "
	errorSeparate = " -> "
)

type telError struct {
	kind      Kind
	cause     error
	traceback string
}

// FromError wraps an existing error with a kind and a message.
func FromError(kind Kind, cause error, wrap string) Error {
	return &telError{
		kind:      kind,
		cause:     cause,
		traceback: fmt.Sprintf("%s: %v", wrap, cause),
	}
}

// FromErrorWithLog is FromError that also logs the message.
func FromErrorWithLog(kind Kind, cause error, wrap string, log logging.Logger) Error {
	msg := fmt.Sprintf("%s: %v", wrap, cause)
	log.Error(msg)

	return &telError{
		kind:      kind,
		cause:     cause,
		traceback: msg,
	}
}

// FromString creates a new Error with the given kind and message.
func FromString(kind Kind, msg string) Error {
	return &telError{
		kind:      kind,
		cause:     errors.New(msg), //nolint:err113
		traceback: msg,
	}
}

// FromStringWithLog is FromString that also logs the message.
func FromStringWithLog(kind Kind, msg string, log logging.Logger) Error {
	log.Error(msg)

	return &telError{
		kind:      kind,
		cause:     errors.New(msg), //nolint:err113
		traceback: msg,
	}
}

func (e *telError) Error() string {
	safetyCheck(&e)

	return fmt.Sprintf("%s%s%s", e.kind, kindSeparate, e.traceback)
}

func (e *telError) Unwrap() error {
	safetyCheck(&e)

	return e.cause
}

// UnwrapLastError returns the most recent wrap message only.
func (e *telError) UnwrapLastError() string {
	safetyCheck(&e)

	traceback := []byte(e.traceback)

	end := strings.Index(e.traceback, errorSeparate)
	if end == -1 {
		return e.traceback
	}

	return string(traceback[:end])
}

// Wrap adds a message to the error traceback, providing additional context.
// It is highly recommended to use this method each time you return the error
// to a higher level in the call stack.
func (e *telError) Wrap(msg string) Error {
	safetyCheck(&e)
	e.traceback = fmt.Sprintf("%s%s%s", msg, errorSeparate, e.traceback)

	return e
}

// WrapWithLog is Wrap that also logs the message.
func (e *telError) WrapWithLog(msg string, log logging.Logger) Error {
	log.Error(msg)

	return e.Wrap(msg)
}

func (e *telError) Kind() Kind {
	safetyCheck(&e)

	return e.kind
}

// safetyCheck replaces a nil receiver with a sentinel error so a careless
// dereference of a nil Error does not panic.
func safetyCheck(err **telError) {
	if *err == nil {
		*err = &telError{
			kind:      KindInternal,
			cause:     ErrNilError,
			traceback: ErrNilError.Error(),
		}
	}
}
