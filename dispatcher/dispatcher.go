// Package dispatcher drives the outer loop: it receives updates from the
// remote API or a webhook and feeds them through a built router tree.
package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Nnenty/telers/bot"
	"github.com/Nnenty/telers/event"
	"github.com/Nnenty/telers/fsm"
	"github.com/Nnenty/telers/logging"
	"github.com/Nnenty/telers/middlewares"
	"github.com/Nnenty/telers/router"
	"github.com/Nnenty/telers/telerrors"
	"github.com/Nnenty/telers/types"
)

// DefaultPollingTimeout is the long-poll hold time in seconds.
const DefaultPollingTimeout int64 = 30

// Options configures a Dispatcher.
//
// Middlewares overrides the default middleware config entirely; when nil the
// dispatcher installs its defaults on the kind-agnostic update observer:
// Logging as inner middleware, UserContext and, when FSMStorage is set,
// FSMContext as outer middlewares.
type Options struct {
	Logger      logging.Logger
	Middlewares *router.Config

	FSMStorage  fsm.Storage
	FSMStrategy fsm.Strategy
	FSMDestiny  string

	// PollingTimeout in seconds; DefaultPollingTimeout when zero.
	PollingTimeout int64

	// SkipUpdateTypes narrows the computed subscription set.
	SkipUpdateTypes []types.UpdateType
}

// Dispatcher owns a bot handle and a built router service.
type Dispatcher struct {
	bot            *bot.Bot
	service        *router.Service
	log            logging.Logger
	allowedUpdates []types.UpdateType
	pollingTimeout int64

	wg sync.WaitGroup
}

// New builds the router tree with the configured middlewares and returns a
// ready dispatcher.
func New(b *bot.Bot, root *router.Router, opts Options) (*Dispatcher, telerrors.Error) {
	log := opts.Logger
	if log == nil {
		log = logging.NewBaseLogger(nil).NewLogger()
	}

	config := opts.Middlewares
	if config == nil {
		config = defaultMiddlewares(log, opts)
	}

	service, err := root.Build(*config)
	if err != nil {
		return nil, err.Wrap("failed to build router tree")
	}

	pollingTimeout := opts.PollingTimeout
	if pollingTimeout == 0 {
		pollingTimeout = DefaultPollingTimeout
	}

	return &Dispatcher{
		bot:            b,
		service:        service,
		log:            log,
		allowedUpdates: root.ResolveUsedUpdateTypesWithSkip(opts.SkipUpdateTypes...),
		pollingTimeout: pollingTimeout,
	}, nil
}

func defaultMiddlewares(log logging.Logger, opts Options) *router.Config {
	outer := []event.OuterMiddleware{middlewares.UserContext()}

	if opts.FSMStorage != nil {
		outer = append(outer, middlewares.FSMContext(middlewares.FSMConfig{
			Storage:  opts.FSMStorage,
			Strategy: opts.FSMStrategy,
			Destiny:  opts.FSMDestiny,
		}))
	}

	return &router.Config{
		Outer: map[types.UpdateType][]event.OuterMiddleware{
			router.ObserverUpdate: outer,
		},
		Inner: map[types.UpdateType][]event.InnerMiddleware{
			router.ObserverUpdate: {middlewares.Logging(log)},
		},
	}
}

// Service exposes the built router tree.
func (d *Dispatcher) Service() *router.Service {
	return d.service
}

// AllowedUpdates reports the subscription set computed from the router tree.
func (d *Dispatcher) AllowedUpdates() []types.UpdateType {
	return d.allowedUpdates
}

// FeedUpdate propagates a single update through the router tree with a
// fresh request context.
func (d *Dispatcher) FeedUpdate(
	ctx context.Context,
	update *types.Update,
) (event.Response, telerrors.Error) {
	kind := update.Type()
	if kind == types.UpdateTypeUnknown {
		return event.Response{}, telerrors.FromString(
			telerrors.KindInternal,
			fmt.Sprintf("update %d carries no recognized event kind", update.ID),
		)
	}

	return d.service.PropagateEvent(ctx, kind, event.NewRequest(d.bot, update))
}

// RunPolling runs the long-poll loop until the context is cancelled: emits
// startup, fetches update batches with the computed subscription set and
// processes each update in its own goroutine. A failed update is logged and
// never aborts the loop. On cancellation it waits for in-flight updates and
// emits shutdown.
func (d *Dispatcher) RunPolling(ctx context.Context) telerrors.Error {
	if err := d.service.EmitStartup(ctx); err != nil {
		return err.Wrap("startup failed")
	}

	d.log.Infof("polling started for bot %d", d.bot.ID)

	var (
		offset  int64
		backoff exponentialBackoff
	)

	for ctx.Err() == nil {
		updates, err := d.bot.GetUpdates(ctx, offset, d.pollingTimeout, d.allowedUpdates)
		if err != nil {
			if ctx.Err() != nil {
				break
			}

			pause := backoff.next()
			d.log.Errorf("failed to fetch updates, retrying in %s: %s", pause, err)

			select {
			case <-time.After(pause):
			case <-ctx.Done():
			}

			continue
		}

		backoff.reset()

		for i := range updates {
			update := updates[i]
			offset = update.ID + 1

			d.wg.Add(1)

			go func() {
				defer d.wg.Done()

				d.processUpdate(context.WithoutCancel(ctx), &update)
			}()
		}
	}

	d.wg.Wait()

	d.log.Infof("polling stopped for bot %d", d.bot.ID)

	if err := d.service.EmitShutdown(context.WithoutCancel(ctx)); err != nil {
		return err.Wrap("shutdown failed")
	}

	return nil
}

// processUpdate scopes a failure to the one update that caused it.
func (d *Dispatcher) processUpdate(ctx context.Context, update *types.Update) {
	resp, err := d.FeedUpdate(ctx, update)
	if err != nil {
		d.log.WithUpdateID(update.ID).Errorf("update processing failed: %s", err)

		return
	}

	if resp.Result == event.PropagateResultUnhandled {
		d.log.WithUpdateID(update.ID).Debugf("update unhandled")
	}
}
