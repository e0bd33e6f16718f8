package router

import (
	"context"
	"fmt"

	"github.com/Nnenty/telers/event"
	"github.com/Nnenty/telers/telerrors"
	"github.com/Nnenty/telers/types"
)

// Service is the frozen runtime form of a router tree.
type Service struct {
	name        string
	observers   map[types.UpdateType]*event.ObserverService
	update      *event.ObserverService
	startup     *event.LifecycleService
	shutdown    *event.LifecycleService
	subServices []*Service
}

func (s *Service) Name() string {
	return s.name
}

// Observer returns the frozen observer for the given kind, or the update
// observer for ObserverUpdate. Unknown kinds return nil.
func (s *Service) Observer(kind types.UpdateType) *event.ObserverService {
	if kind == ObserverUpdate {
		return s.update
	}

	return s.observers[kind]
}

// PropagateEvent routes one event of the given kind through this router and
// its sub routers.
//
// The update observer runs first; its Handled or Rejected ends propagation
// here. Then the kind observer's outer middlewares run (a Cancel rejects),
// the observer triggers, and a Handled is returned as is while its Rejected
// is absorbed to Unhandled. Sub routers are tried in order; the first one
// answering Handled or Rejected is returned verbatim, so a sub router's
// rejection, unlike this router's own, does propagate upward.
func (s *Service) PropagateEvent(
	ctx context.Context,
	kind types.UpdateType,
	req event.Request,
) (event.Response, telerrors.Error) {
	resp, err := s.PropagateUpdateEvent(ctx, req)
	if err != nil {
		return event.Response{}, err
	}

	if resp.Result != event.PropagateResultUnhandled {
		return resp, nil
	}

	observer := s.observers[kind]
	if observer == nil {
		return event.Response{}, telerrors.FromString(
			telerrors.KindInternal,
			fmt.Sprintf("no observer for event kind %q", kind),
		)
	}

	req, cancelled, err := observer.ApplyOuter(ctx, req)
	if err != nil {
		return event.Response{}, err
	}

	if cancelled {
		return event.Response{
			Request: req,
			Result:  event.PropagateResultRejected,
		}, nil
	}

	observerResp, err := observer.Trigger(ctx, req)
	if err != nil {
		return event.Response{}, err
	}

	switch observerResp.Result {
	case event.PropagateResultHandled:
		return observerResp, nil
	case event.PropagateResultRejected:
		// The router absorbs its own observer's rejection so sibling
		// routers at the caller still get a chance.
		return event.Response{
			Request: req,
			Result:  event.PropagateResultUnhandled,
		}, nil
	}

	for _, sub := range s.subServices {
		subResp, err := sub.PropagateEvent(ctx, kind, req)
		if err != nil {
			return event.Response{}, err
		}

		if subResp.Result != event.PropagateResultUnhandled {
			return subResp, nil
		}
	}

	return event.Response{
		Request: req,
		Result:  event.PropagateResultUnhandled,
	}, nil
}

// PropagateUpdateEvent runs this router's kind-agnostic update observer
// with its own outer middlewares. A rejection from the observer's trigger
// is absorbed to Unhandled; a Cancel from an outer middleware rejects.
func (s *Service) PropagateUpdateEvent(
	ctx context.Context,
	req event.Request,
) (event.Response, telerrors.Error) {
	req, cancelled, err := s.update.ApplyOuter(ctx, req)
	if err != nil {
		return event.Response{}, err
	}

	if cancelled {
		return event.Response{
			Request: req,
			Result:  event.PropagateResultRejected,
		}, nil
	}

	resp, err := s.update.Trigger(ctx, req)
	if err != nil {
		return event.Response{}, err
	}

	if resp.Result == event.PropagateResultRejected {
		return event.Response{
			Request: req,
			Result:  event.PropagateResultUnhandled,
		}, nil
	}

	return resp, nil
}

// EmitStartup runs the startup observers depth-first, pre-order, aborting
// on the first error.
func (s *Service) EmitStartup(ctx context.Context) telerrors.Error {
	if err := s.startup.Trigger(ctx); err != nil {
		return err.Wrap(fmt.Sprintf("startup of router %q failed", s.name))
	}

	for _, sub := range s.subServices {
		if err := sub.EmitStartup(ctx); err != nil {
			return err
		}
	}

	return nil
}

// EmitShutdown runs the shutdown observers depth-first, pre-order, aborting
// on the first error.
func (s *Service) EmitShutdown(ctx context.Context) telerrors.Error {
	if err := s.shutdown.Trigger(ctx); err != nil {
		return err.Wrap(fmt.Sprintf("shutdown of router %q failed", s.name))
	}

	for _, sub := range s.subServices {
		if err := sub.EmitShutdown(ctx); err != nil {
			return err
		}
	}

	return nil
}
