package event_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nnenty/telers/bot"
	"github.com/Nnenty/telers/event"
	"github.com/Nnenty/telers/telerrors"
	"github.com/Nnenty/telers/types"
)

func newMessageRequest(text string) event.Request {
	return event.NewRequest(&bot.Bot{ID: 1}, &types.Update{
		ID: 100,
		Message: &types.Message{
			Text: text,
			From: &types.User{ID: 7},
			Chat: types.Chat{ID: 7},
		},
	})
}

func passFilter(_ context.Context, _ event.Request) (bool, telerrors.Error) {
	return true, nil
}

func failFilter(_ context.Context, _ event.Request) (bool, telerrors.Error) {
	return false, nil
}

func answer(ret event.Return) event.HandlerFunc {
	return func(_ context.Context, _ event.Request) (event.Return, telerrors.Error) {
		return ret, nil
	}
}

func TestObserverTrigger_NoHandlersYieldsUnhandled(t *testing.T) {
	t.Parallel()

	observer := event.NewObserver("message")

	resp, err := observer.Freeze().Trigger(context.Background(), newMessageRequest("hi"))

	require.NoError(t, err)
	assert.Equal(t, event.PropagateResultUnhandled, resp.Result)
}

func TestObserverTrigger_FirstPassingHandlerWins(t *testing.T) {
	t.Parallel()

	var ran []string

	observer := event.NewObserver("message")
	observer.Register(func(_ context.Context, _ event.Request) (event.Return, telerrors.Error) {
		ran = append(ran, "first")

		return event.ReturnFinish, nil
	}, failFilter)
	observer.Register(func(_ context.Context, _ event.Request) (event.Return, telerrors.Error) {
		ran = append(ran, "second")

		return event.ReturnFinish, nil
	}, passFilter)
	observer.Register(func(_ context.Context, _ event.Request) (event.Return, telerrors.Error) {
		ran = append(ran, "third")

		return event.ReturnFinish, nil
	})

	resp, err := observer.Freeze().Trigger(context.Background(), newMessageRequest("hi"))

	require.NoError(t, err)
	assert.Equal(t, event.PropagateResultHandled, resp.Result)
	assert.Equal(t, []string{"second"}, ran)
}

func TestObserverTrigger_CommonFilterFailureRejects(t *testing.T) {
	t.Parallel()

	handlerRan := false

	observer := event.NewObserver("message")
	observer.Filter(failFilter)
	observer.Register(func(_ context.Context, _ event.Request) (event.Return, telerrors.Error) {
		handlerRan = true

		return event.ReturnFinish, nil
	})

	resp, err := observer.Freeze().Trigger(context.Background(), newMessageRequest("hi"))

	require.NoError(t, err)
	assert.Equal(t, event.PropagateResultRejected, resp.Result)
	assert.False(t, handlerRan)
}

func TestObserverTrigger_SkipMovesToNextHandler(t *testing.T) {
	t.Parallel()

	observer := event.NewObserver("message")
	observer.Register(answer(event.ReturnSkip))
	observer.Register(answer(event.ReturnFinish))

	resp, err := observer.Freeze().Trigger(context.Background(), newMessageRequest("hi"))

	require.NoError(t, err)
	assert.Equal(t, event.PropagateResultHandled, resp.Result)
}

func TestObserverTrigger_SkipFromEveryHandlerYieldsUnhandled(t *testing.T) {
	t.Parallel()

	observer := event.NewObserver("message")
	observer.Register(answer(event.ReturnSkip))
	observer.Register(answer(event.ReturnSkip))

	resp, err := observer.Freeze().Trigger(context.Background(), newMessageRequest("hi"))

	require.NoError(t, err)
	assert.Equal(t, event.PropagateResultUnhandled, resp.Result)
}

func TestObserverTrigger_CancelRejects(t *testing.T) {
	t.Parallel()

	secondRan := false

	observer := event.NewObserver("message")
	observer.Register(answer(event.ReturnCancel))
	observer.Register(func(_ context.Context, _ event.Request) (event.Return, telerrors.Error) {
		secondRan = true

		return event.ReturnFinish, nil
	})

	resp, err := observer.Freeze().Trigger(context.Background(), newMessageRequest("hi"))

	require.NoError(t, err)
	assert.Equal(t, event.PropagateResultRejected, resp.Result)
	assert.False(t, secondRan)
}

func TestObserverTrigger_FilterErrorAborts(t *testing.T) {
	t.Parallel()

	observer := event.NewObserver("message")
	observer.Register(answer(event.ReturnFinish),
		func(_ context.Context, _ event.Request) (bool, telerrors.Error) {
			return false, telerrors.FromString(telerrors.KindHandler, "boom")
		})
	observer.Register(answer(event.ReturnFinish))

	_, err := observer.Freeze().Trigger(context.Background(), newMessageRequest("hi"))

	require.Error(t, err)
	assert.Equal(t, telerrors.KindHandler, err.Kind())
}

func TestObserverTrigger_InnerMiddlewareOrderAndShortCircuit(t *testing.T) {
	t.Parallel()

	var order []string

	named := func(name string) event.InnerMiddleware {
		return func(ctx context.Context, req event.Request, next event.Next) (event.Return, telerrors.Error) {
			order = append(order, name+"-before")

			ret, err := next(ctx, req)

			order = append(order, name+"-after")

			return ret, err
		}
	}

	observer := event.NewObserver("message")
	observer.Use(named("outer"), named("inner"))
	observer.Register(func(_ context.Context, _ event.Request) (event.Return, telerrors.Error) {
		order = append(order, "handler")

		return event.ReturnFinish, nil
	})

	resp, err := observer.Freeze().Trigger(context.Background(), newMessageRequest("hi"))

	require.NoError(t, err)
	assert.Equal(t, event.PropagateResultHandled, resp.Result)
	assert.Equal(t, []string{
		"outer-before",
		"inner-before",
		"handler",
		"inner-after",
		"outer-after",
	}, order)

	t.Run("[Use] - middleware may short-circuit without the handler", func(t *testing.T) {
		shortCircuit := event.NewObserver("message")
		shortCircuit.Use(func(_ context.Context, _ event.Request, _ event.Next) (event.Return, telerrors.Error) {
			return event.ReturnFinish, nil
		})

		handlerRan := false

		shortCircuit.Register(func(_ context.Context, _ event.Request) (event.Return, telerrors.Error) {
			handlerRan = true

			return event.ReturnFinish, nil
		})

		resp, err := shortCircuit.Freeze().Trigger(context.Background(), newMessageRequest("hi"))

		require.NoError(t, err)
		assert.Equal(t, event.PropagateResultHandled, resp.Result)
		assert.False(t, handlerRan)
	})
}

func TestObserverApplyOuter_CommitSemantics(t *testing.T) {
	t.Parallel()

	observer := event.NewObserver("message")
	observer.UseOuter(func(_ context.Context, req event.Request) (event.Request, event.Return, telerrors.Error) {
		req.Context.SetRequestID("committed")

		return req, event.ReturnFinish, nil
	})
	observer.UseOuter(func(_ context.Context, req event.Request) (event.Request, event.Return, telerrors.Error) {
		return req, event.ReturnSkip, nil
	})

	req, cancelled, err := observer.Freeze().ApplyOuter(context.Background(), newMessageRequest("hi"))

	require.NoError(t, err)
	assert.False(t, cancelled)
	assert.Equal(t, "committed", req.Context.RequestID())

	t.Run("[UseOuter] - cancel stops the pipeline", func(t *testing.T) {
		cancelObserver := event.NewObserver("message")
		cancelObserver.UseOuter(func(_ context.Context, req event.Request) (event.Request, event.Return, telerrors.Error) {
			return req, event.ReturnCancel, nil
		})

		_, cancelled, err := cancelObserver.Freeze().ApplyOuter(context.Background(), newMessageRequest("hi"))

		require.NoError(t, err)
		assert.True(t, cancelled)
	})
}

func TestTypedHandler_SkipsOnKindMismatch(t *testing.T) {
	t.Parallel()

	observer := event.NewObserver("message")
	observer.Register(event.Typed(event.CallbackQueryExtractor,
		func(_ context.Context, _ event.Request, _ *types.CallbackQuery) (event.Return, telerrors.Error) {
			return event.ReturnFinish, nil
		}))

	handledText := ""

	observer.Register(event.Typed(event.MessageExtractor,
		func(_ context.Context, _ event.Request, msg *types.Message) (event.Return, telerrors.Error) {
			handledText = msg.Text

			return event.ReturnFinish, nil
		}))

	resp, err := observer.Freeze().Trigger(context.Background(), newMessageRequest("payload"))

	require.NoError(t, err)
	assert.Equal(t, event.PropagateResultHandled, resp.Result)
	assert.Equal(t, "payload", handledText)
}

func TestLifecycleObserver_TriggerAbortsOnFirstError(t *testing.T) {
	t.Parallel()

	var ran []string

	observer := event.NewLifecycleObserver("startup")
	observer.Register(func(_ context.Context) telerrors.Error {
		ran = append(ran, "first")

		return nil
	})
	observer.Register(func(_ context.Context) telerrors.Error {
		ran = append(ran, "second")

		return telerrors.FromString(telerrors.KindInternal, "boom")
	})
	observer.Register(func(_ context.Context) telerrors.Error {
		ran = append(ran, "third")

		return nil
	})

	err := observer.Freeze().Trigger(context.Background())

	require.Error(t, err)
	assert.Equal(t, []string{"first", "second"}, ran)
}
