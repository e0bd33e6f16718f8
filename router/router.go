// Package router composes observers into an ordered tree and propagates
// events through it.
package router

import (
	"fmt"

	"github.com/Nnenty/telers/event"
	"github.com/Nnenty/telers/telerrors"
	"github.com/Nnenty/telers/types"
)

// ObserverUpdate keys the kind-agnostic update observer in middleware
// configs. It is not a wire event kind; the update observer runs for every
// update before the kind-specific observer.
const ObserverUpdate types.UpdateType = "update"

// Router is the mutable registration surface for one node of the dispatch
// tree: one observer per event kind, the kind-agnostic update observer,
// startup/shutdown lifecycle observers and an ordered list of sub routers.
// Build freezes the whole tree into an immutable Service.
type Router struct {
	name       string
	observers  map[types.UpdateType]*event.Observer
	update     *event.Observer
	startup    *event.LifecycleObserver
	shutdown   *event.LifecycleObserver
	subRouters []*Router
}

// New creates a router with empty observers for every event kind.
func New(name string) *Router {
	observers := make(map[types.UpdateType]*event.Observer, len(types.AllUpdateTypes()))

	for _, kind := range types.AllUpdateTypes() {
		observers[kind] = event.NewObserver(string(kind))
	}

	return &Router{
		name:      name,
		observers: observers,
		update:    event.NewObserver(string(ObserverUpdate)),
		startup:   event.NewLifecycleObserver("startup"),
		shutdown:  event.NewLifecycleObserver("shutdown"),
	}
}

func (r *Router) Name() string {
	return r.name
}

// Observer returns the observer for the given kind, or the update observer
// for ObserverUpdate. Unknown kinds return nil.
func (r *Router) Observer(kind types.UpdateType) *event.Observer {
	if kind == ObserverUpdate {
		return r.update
	}

	return r.observers[kind]
}

func (r *Router) Message() *event.Observer {
	return r.observers[types.UpdateTypeMessage]
}

func (r *Router) EditedMessage() *event.Observer {
	return r.observers[types.UpdateTypeEditedMessage]
}

func (r *Router) ChannelPost() *event.Observer {
	return r.observers[types.UpdateTypeChannelPost]
}

func (r *Router) EditedChannelPost() *event.Observer {
	return r.observers[types.UpdateTypeEditedChannelPost]
}

func (r *Router) BusinessConnection() *event.Observer {
	return r.observers[types.UpdateTypeBusinessConnection]
}

func (r *Router) BusinessMessage() *event.Observer {
	return r.observers[types.UpdateTypeBusinessMessage]
}

func (r *Router) EditedBusinessMessage() *event.Observer {
	return r.observers[types.UpdateTypeEditedBusinessMessage]
}

func (r *Router) DeletedBusinessMessages() *event.Observer {
	return r.observers[types.UpdateTypeDeletedBusinessMessages]
}

func (r *Router) MessageReaction() *event.Observer {
	return r.observers[types.UpdateTypeMessageReaction]
}

func (r *Router) MessageReactionCount() *event.Observer {
	return r.observers[types.UpdateTypeMessageReactionCount]
}

func (r *Router) InlineQuery() *event.Observer {
	return r.observers[types.UpdateTypeInlineQuery]
}

func (r *Router) ChosenInlineResult() *event.Observer {
	return r.observers[types.UpdateTypeChosenInlineResult]
}

func (r *Router) CallbackQuery() *event.Observer {
	return r.observers[types.UpdateTypeCallbackQuery]
}

func (r *Router) ShippingQuery() *event.Observer {
	return r.observers[types.UpdateTypeShippingQuery]
}

func (r *Router) PreCheckoutQuery() *event.Observer {
	return r.observers[types.UpdateTypePreCheckoutQuery]
}

func (r *Router) Poll() *event.Observer {
	return r.observers[types.UpdateTypePoll]
}

func (r *Router) PollAnswer() *event.Observer {
	return r.observers[types.UpdateTypePollAnswer]
}

func (r *Router) MyChatMember() *event.Observer {
	return r.observers[types.UpdateTypeMyChatMember]
}

func (r *Router) ChatMember() *event.Observer {
	return r.observers[types.UpdateTypeChatMember]
}

func (r *Router) ChatJoinRequest() *event.Observer {
	return r.observers[types.UpdateTypeChatJoinRequest]
}

func (r *Router) ChatBoost() *event.Observer {
	return r.observers[types.UpdateTypeChatBoost]
}

func (r *Router) RemovedChatBoost() *event.Observer {
	return r.observers[types.UpdateTypeRemovedChatBoost]
}

// Update returns the kind-agnostic observer running before every
// kind-specific observer of this router.
func (r *Router) Update() *event.Observer {
	return r.update
}

func (r *Router) Startup() *event.LifecycleObserver {
	return r.startup
}

func (r *Router) Shutdown() *event.LifecycleObserver {
	return r.shutdown
}

// Include appends sub routers; their registration order is the propagation
// order.
func (r *Router) Include(subRouters ...*Router) *Router {
	r.subRouters = append(r.subRouters, subRouters...)

	return r
}

func (r *Router) SubRouters() []*Router {
	return r.subRouters
}

// ResolveUsedUpdateTypes walks the tree and reports, in wire order, every
// event kind whose observer has at least one handler in this router or any
// descendant. The result is the minimal subscription set for the update
// source.
func (r *Router) ResolveUsedUpdateTypes() []types.UpdateType {
	return r.ResolveUsedUpdateTypesWithSkip()
}

// ResolveUsedUpdateTypesWithSkip is ResolveUsedUpdateTypes minus the given
// kinds.
func (r *Router) ResolveUsedUpdateTypesWithSkip(skip ...types.UpdateType) []types.UpdateType {
	skipped := make(map[types.UpdateType]struct{}, len(skip))

	for _, kind := range skip {
		skipped[kind] = struct{}{}
	}

	used := map[types.UpdateType]struct{}{}
	r.collectUsedUpdateTypes(skipped, used)

	resolved := make([]types.UpdateType, 0, len(used))

	for _, kind := range types.AllUpdateTypes() {
		if _, ok := used[kind]; ok {
			resolved = append(resolved, kind)
		}
	}

	return resolved
}

func (r *Router) collectUsedUpdateTypes(
	skipped map[types.UpdateType]struct{},
	used map[types.UpdateType]struct{},
) {
	for kind, observer := range r.observers {
		if !observer.HasHandlers() {
			continue
		}

		if _, ok := skipped[kind]; ok {
			continue
		}

		used[kind] = struct{}{}
	}

	for _, sub := range r.subRouters {
		sub.collectUsedUpdateTypes(skipped, used)
	}
}

// Config carries the default middlewares installed at build time. Outer
// middlewares apply to the root router only; inner middlewares go to the
// front of the matching observer of every router in the tree.
type Config struct {
	Outer map[types.UpdateType][]event.OuterMiddleware
	Inner map[types.UpdateType][]event.InnerMiddleware
}

// Build freezes the tree into an immutable Service. For every observer
// kind, the inner middlewares of ancestor routers are spliced in front of a
// descendant's own, so ancestor middlewares always wrap descendant ones.
// The router itself stays reusable; Build does not mutate it.
func (r *Router) Build(config Config) (*Service, telerrors.Error) {
	return r.buildService(config, nil, nil, true, map[*Router]struct{}{r: {}})
}

func (r *Router) buildService(
	config Config,
	inheritedByKind map[types.UpdateType][]event.InnerMiddleware,
	inheritedUpdate []event.InnerMiddleware,
	root bool,
	visited map[*Router]struct{},
) (*Service, telerrors.Error) {
	service := &Service{
		name:      r.name,
		observers: make(map[types.UpdateType]*event.ObserverService, len(r.observers)),
	}

	// Inner middlewares visible to sub routers: ancestors' plus this
	// router's own, before any config defaults.
	inheritableByKind := make(map[types.UpdateType][]event.InnerMiddleware, len(r.observers))

	freeze := func(
		observer *event.Observer,
		kind types.UpdateType,
		inherited []event.InnerMiddleware,
	) (*event.ObserverService, []event.InnerMiddleware) {
		clone := observer.Clone()
		clone.PrependInner(inherited...)

		inheritable := make([]event.InnerMiddleware, len(clone.InnerMiddlewares()))
		copy(inheritable, clone.InnerMiddlewares())

		clone.PrependInner(config.Inner[kind]...)

		if root {
			clone.PrependOuter(config.Outer[kind]...)
		}

		return clone.Freeze(), inheritable
	}

	for kind, observer := range r.observers {
		frozen, inheritable := freeze(observer, kind, inheritedByKind[kind])

		service.observers[kind] = frozen
		inheritableByKind[kind] = inheritable
	}

	frozenUpdate, inheritableUpdate := freeze(r.update, ObserverUpdate, inheritedUpdate)

	service.update = frozenUpdate
	service.startup = r.startup.Freeze()
	service.shutdown = r.shutdown.Freeze()

	for _, sub := range r.subRouters {
		if sub == r {
			return nil, telerrors.FromString(
				telerrors.KindInternal,
				fmt.Sprintf("router %q includes itself", r.name),
			)
		}

		if _, seen := visited[sub]; seen {
			return nil, telerrors.FromString(
				telerrors.KindInternal,
				fmt.Sprintf("router %q is included in a cycle", sub.name),
			)
		}

		visited[sub] = struct{}{}

		subService, err := sub.buildService(config, inheritableByKind, inheritableUpdate, false, visited)
		if err != nil {
			return nil, err.Wrap("failed to build sub router")
		}

		service.subServices = append(service.subServices, subService)
	}

	return service, nil
}
