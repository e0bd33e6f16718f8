package middlewares

import (
	"context"
	"time"

	"github.com/Nnenty/telers/event"
	"github.com/Nnenty/telers/logging"
	"github.com/Nnenty/telers/telerrors"
)

// Logging is an inner middleware that logs every executed handler with a
// random request id, the update id, the user id when known, the outcome
// signal and the handler duration.
func Logging(log logging.Logger) event.InnerMiddleware {
	return func(ctx context.Context, req event.Request, next event.Next) (event.Return, telerrors.Error) {
		entry := log.WithRequestRandomID().WithUpdateID(req.Update.ID)

		if user := req.Context.EventUser(); user != nil {
			entry = entry.WithUserID(user.ID)
		}

		start := time.Now()

		ret, err := next(ctx, req)

		elapsed := time.Since(start)

		if err != nil {
			entry.Errorf("handler failed after %s: %s", elapsed, err)

			return ret, err
		}

		entry.Infof("handler finished with %s in %s", ret, elapsed)

		return ret, nil
	}
}
