package event

import (
	"context"

	"github.com/Nnenty/telers/telerrors"
)

// Observer is the mutable registration surface for one event kind: an
// ordered handler list, observer-wide common filters and the two middleware
// pipelines. Freeze turns it into the immutable service form used at
// runtime.
type Observer struct {
	name             string
	handlers         []HandlerObject
	commonFilters    []Filter
	innerMiddlewares []InnerMiddleware
	outerMiddlewares []OuterMiddleware
}

// NewObserver creates an empty observer. The name shows up in logs.
func NewObserver(name string) *Observer {
	return &Observer{name: name}
}

func (o *Observer) Name() string {
	return o.name
}

// Handlers returns the registered handlers in registration order.
func (o *Observer) Handlers() []HandlerObject {
	return o.handlers
}

// HasHandlers reports whether at least one handler is registered.
func (o *Observer) HasHandlers() bool {
	return len(o.handlers) > 0
}

// Register appends a handler with its filters. Duplicates are allowed;
// registration order is the evaluation order.
func (o *Observer) Register(callback HandlerFunc, filters ...Filter) {
	o.handlers = append(o.handlers, HandlerObject{
		Callback: callback,
		Filters:  filters,
	})
}

// Filter extends the observer-wide common filter set, evaluated once per
// trigger before any handler is considered.
func (o *Observer) Filter(filters ...Filter) {
	o.commonFilters = append(o.commonFilters, filters...)
}

// Use appends inner middlewares wrapping handler execution.
func (o *Observer) Use(middlewares ...InnerMiddleware) {
	o.innerMiddlewares = append(o.innerMiddlewares, middlewares...)
}

// UseOuter appends outer middlewares wrapping handler selection.
func (o *Observer) UseOuter(middlewares ...OuterMiddleware) {
	o.outerMiddlewares = append(o.outerMiddlewares, middlewares...)
}

// PrependInner inserts middlewares before the ones registered so far,
// keeping their relative order. The router uses it to splice ancestor
// middlewares in front of a descendant's own.
func (o *Observer) PrependInner(middlewares ...InnerMiddleware) {
	o.innerMiddlewares = append(
		append([]InnerMiddleware{}, middlewares...),
		o.innerMiddlewares...,
	)
}

// PrependOuter inserts outer middlewares before the ones registered so far.
func (o *Observer) PrependOuter(middlewares ...OuterMiddleware) {
	o.outerMiddlewares = append(
		append([]OuterMiddleware{}, middlewares...),
		o.outerMiddlewares...,
	)
}

// InnerMiddlewares returns the inner middleware pipeline in order.
func (o *Observer) InnerMiddlewares() []InnerMiddleware {
	return o.innerMiddlewares
}

// Clone copies the observer so middleware splicing at build time does not
// touch the original registrations.
func (o *Observer) Clone() *Observer {
	clone := &Observer{
		name:             o.name,
		handlers:         make([]HandlerObject, len(o.handlers)),
		commonFilters:    make([]Filter, len(o.commonFilters)),
		innerMiddlewares: make([]InnerMiddleware, len(o.innerMiddlewares)),
		outerMiddlewares: make([]OuterMiddleware, len(o.outerMiddlewares)),
	}

	copy(clone.handlers, o.handlers)
	copy(clone.commonFilters, o.commonFilters)
	copy(clone.innerMiddlewares, o.innerMiddlewares)
	copy(clone.outerMiddlewares, o.outerMiddlewares)

	return clone
}

// Freeze copies the observer into its immutable runtime form.
func (o *Observer) Freeze() *ObserverService {
	service := &ObserverService{
		name:             o.name,
		handlers:         make([]HandlerObject, len(o.handlers)),
		commonFilters:    make([]Filter, len(o.commonFilters)),
		innerMiddlewares: make([]InnerMiddleware, len(o.innerMiddlewares)),
		outerMiddlewares: make([]OuterMiddleware, len(o.outerMiddlewares)),
	}

	copy(service.handlers, o.handlers)
	copy(service.commonFilters, o.commonFilters)
	copy(service.innerMiddlewares, o.innerMiddlewares)
	copy(service.outerMiddlewares, o.outerMiddlewares)

	return service
}

// ObserverService is the frozen runtime form of an Observer.
type ObserverService struct {
	name             string
	handlers         []HandlerObject
	commonFilters    []Filter
	innerMiddlewares []InnerMiddleware
	outerMiddlewares []OuterMiddleware
}

func (s *ObserverService) Name() string {
	return s.name
}

// HasHandlers reports whether at least one handler is registered.
func (s *ObserverService) HasHandlers() bool {
	return len(s.handlers) > 0
}

// OuterMiddlewares returns the outer pipeline; the router applies it before
// calling Trigger.
func (s *ObserverService) OuterMiddlewares() []OuterMiddleware {
	return s.outerMiddlewares
}

// ApplyOuter runs the outer middlewares with the Return commit semantics.
// cancelled reports a ReturnCancel, which the caller turns into a rejection.
func (s *ObserverService) ApplyOuter(ctx context.Context, req Request) (Request, bool, telerrors.Error) {
	return applyOuter(ctx, req, s.outerMiddlewares)
}

// Trigger evaluates common filters, selects the first handler whose filters
// pass and executes it through the inner middleware chain.
//
// A failing common filter yields Rejected without considering any handler.
// A handler answering Skip hands over to the next handler; Cancel yields
// Rejected; anything else yields Handled. When no handler is selected the
// response is Unhandled. Any error from a filter, middleware or handler
// aborts the trigger immediately.
func (s *ObserverService) Trigger(ctx context.Context, req Request) (Response, telerrors.Error) {
	for _, filter := range s.commonFilters {
		ok, err := filter(ctx, req)
		if err != nil {
			return Response{}, err.Wrap("common filter check failed")
		}

		if !ok {
			return Response{
				Request: req,
				Result:  PropagateResultRejected,
			}, nil
		}
	}

	for _, handler := range s.handlers {
		ok, err := handler.Check(ctx, req)
		if err != nil {
			return Response{}, err.Wrap("handler check failed")
		}

		if !ok {
			continue
		}

		ret, err := runChain(ctx, req, s.innerMiddlewares, handler.Callback)
		if err != nil {
			return Response{}, err.Wrap("handler execution failed")
		}

		switch ret {
		case ReturnSkip:
			continue
		case ReturnCancel:
			return Response{
				Request: req,
				Result:  PropagateResultRejected,
				Return:  ret,
			}, nil
		default:
			return Response{
				Request: req,
				Result:  PropagateResultHandled,
				Return:  ret,
			}, nil
		}
	}

	return Response{
		Request: req,
		Result:  PropagateResultUnhandled,
	}, nil
}
