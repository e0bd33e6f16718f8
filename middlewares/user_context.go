// Package middlewares provides ready-made outer and inner middlewares for
// the dispatcher and routers.
package middlewares

import (
	"context"

	"github.com/Nnenty/telers/event"
	"github.com/Nnenty/telers/telerrors"
)

// UserContext is an outer middleware resolving the event's sender, chat,
// thread and business connection into the request context, where filters
// and later middlewares read them from.
func UserContext() event.OuterMiddleware {
	return func(_ context.Context, req event.Request) (event.Request, event.Return, telerrors.Error) {
		if user := req.Update.User(); user != nil {
			req.Context.SetEventUser(user)
		}

		if chat := req.Update.Chat(); chat != nil {
			req.Context.SetEventChat(chat)
		}

		if threadID := req.Update.MessageThreadID(); threadID != 0 {
			req.Context.SetMessageThreadID(threadID)
		}

		if connectionID := req.Update.BusinessConnectionID(); connectionID != "" {
			req.Context.SetBusinessConnectionID(connectionID)
		}

		return req, event.ReturnFinish, nil
	}
}
