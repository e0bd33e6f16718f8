package middlewares

import (
	"context"

	"github.com/Nnenty/telers/event"
	"github.com/Nnenty/telers/fsm"
	"github.com/Nnenty/telers/telerrors"
)

// FSMConfig parameterizes the FSMContext middleware.
type FSMConfig struct {
	Storage  fsm.Storage
	Strategy fsm.Strategy
	Destiny  string
}

// FSMContext is an outer middleware that binds a finite-state-machine
// context to the request. It derives the storage key from the event's
// identifiers per the configured strategy, prefetches the current state for
// cheap filter access and publishes the bound context into the request
// context.
//
// The storage itself is always published, even for updates without an
// identifiable sender; those get no bound context and no prefetched state.
func FSMContext(config FSMConfig) event.OuterMiddleware {
	destiny := config.Destiny
	if destiny == "" {
		destiny = fsm.DefaultDestiny
	}

	return func(ctx context.Context, req event.Request) (event.Request, event.Return, telerrors.Error) {
		req.Context.SetFSMStorage(config.Storage)

		user := req.Context.EventUser()
		if user == nil {
			user = req.Update.User()
		}

		if user == nil {
			return req, event.ReturnFinish, nil
		}

		chatID := user.ID
		if chat := req.Context.EventChat(); chat != nil {
			chatID = chat.ID
		} else if chat := req.Update.Chat(); chat != nil {
			chatID = chat.ID
		}

		pair := config.Strategy.Apply(
			chatID,
			user.ID,
			req.Update.MessageThreadID(),
			req.Update.BusinessConnectionID(),
		)

		key := fsm.StorageKey{
			BotID:                req.Bot.ID,
			ChatID:               pair.ChatID,
			UserID:               pair.UserID,
			MessageThreadID:      pair.MessageThreadID,
			BusinessConnectionID: pair.BusinessConnectionID,
			Destiny:              destiny,
		}

		fsmContext := fsm.NewContext(config.Storage, key)
		req.Context.SetFSM(fsmContext)

		state, ok, err := fsmContext.GetState(ctx)
		if err != nil {
			return req, event.ReturnFinish, err.Wrap("failed to prefetch state")
		}

		if ok {
			req.Context.SetRawState(state)
		}

		return req, event.ReturnFinish, nil
	}
}
