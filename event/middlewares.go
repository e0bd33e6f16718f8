package event

import (
	"context"

	"github.com/Nnenty/telers/telerrors"
)

// Next invokes the remainder of the inner middleware chain, ending with the
// handler itself.
type Next func(ctx context.Context, req Request) (Return, telerrors.Error)

// InnerMiddleware wraps handler execution. It must call next to continue
// the chain, or may return its own result to short-circuit (caching, rate
// limiting, a transaction around the handler).
type InnerMiddleware func(ctx context.Context, req Request, next Next) (Return, telerrors.Error)

// OuterMiddleware wraps the decision to let an observer run at all.
// ReturnFinish commits the returned request and continues; ReturnSkip
// discards this middleware's mutations and continues with the prior
// request; ReturnCancel aborts the observer invocation.
type OuterMiddleware func(ctx context.Context, req Request) (Request, Return, telerrors.Error)

// runChain executes the inner middlewares as an explicit cursor over the
// ordered slice, calling handler at the end.
func runChain(
	ctx context.Context,
	req Request,
	middlewares []InnerMiddleware,
	handler HandlerFunc,
) (Return, telerrors.Error) {
	var run func(ctx context.Context, index int, req Request) (Return, telerrors.Error)

	run = func(ctx context.Context, index int, req Request) (Return, telerrors.Error) {
		if index >= len(middlewares) {
			return handler(ctx, req)
		}

		next := func(ctx context.Context, req Request) (Return, telerrors.Error) {
			return run(ctx, index+1, req)
		}

		ret, err := middlewares[index](ctx, req, next)
		if err != nil {
			return ret, err.Wrap("inner middleware failed")
		}

		return ret, nil
	}

	return run(ctx, 0, req)
}

// applyOuter runs the outer middlewares in order with the commit semantics
// of the Return directive. cancelled reports a ReturnCancel.
func applyOuter(
	ctx context.Context,
	req Request,
	middlewares []OuterMiddleware,
) (_ Request, cancelled bool, _ telerrors.Error) {
	for _, middleware := range middlewares {
		updated, ret, err := middleware(ctx, req)
		if err != nil {
			return req, false, err.Wrap("outer middleware failed")
		}

		switch ret {
		case ReturnFinish:
			req = updated
		case ReturnSkip:
			continue
		case ReturnCancel:
			return req, true, nil
		}
	}

	return req, false, nil
}
