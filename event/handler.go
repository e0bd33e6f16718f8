package event

import (
	"context"
	"errors"

	"github.com/Nnenty/telers/telerrors"
)

// Filter decides whether a given request should be processed. A filter may
// perform I/O (remote calls, storage reads) before answering.
type Filter func(ctx context.Context, req Request) (bool, telerrors.Error)

// HandlerFunc processes one request and answers with a control signal.
type HandlerFunc func(ctx context.Context, req Request) (Return, telerrors.Error)

// HandlerObject couples a callback with its own filter predicates.
type HandlerObject struct {
	Callback HandlerFunc
	Filters  []Filter
}

// Check evaluates the handler's filters in order, short-circuiting on the
// first one that fails.
func (h HandlerObject) Check(ctx context.Context, req Request) (bool, telerrors.Error) {
	for _, filter := range h.Filters {
		ok, err := filter(ctx, req)
		if err != nil {
			return false, err.Wrap("handler filter check failed")
		}

		if !ok {
			return false, nil
		}
	}

	return true, nil
}

// Extractor derives a typed handler argument from the request.
// It returns an error wrapping telerrors.ErrNoMatch when the request simply
// does not carry the value, and an extraction error for real failures.
type Extractor[T any] func(req Request) (T, telerrors.Error)

// Typed adapts a handler with a typed argument into a HandlerFunc. When the
// extractor reports no match, the handler is skipped and the observer moves
// on to the next one; any other extraction failure aborts the trigger.
func Typed[T any](
	extract Extractor[T],
	handler func(ctx context.Context, req Request, value T) (Return, telerrors.Error),
) HandlerFunc {
	return func(ctx context.Context, req Request) (Return, telerrors.Error) {
		value, err := extract(req)
		if err != nil {
			if errors.Is(err, telerrors.ErrNoMatch) {
				return ReturnSkip, nil
			}

			return ReturnCancel, err.Wrap("failed to extract handler argument")
		}

		return handler(ctx, req, value)
	}
}
