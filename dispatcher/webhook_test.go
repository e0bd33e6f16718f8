package dispatcher_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nnenty/telers/dispatcher"
	"github.com/Nnenty/telers/event"
	"github.com/Nnenty/telers/router"
	"github.com/Nnenty/telers/telerrors"
)

func newWebhookServer(t *testing.T, root *router.Router) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	d, err := dispatcher.New(newTestBot(t, &pollingClient{}), root, dispatcher.Options{})

	require.NoError(t, err)

	engine := gin.New()
	engine.POST("/webhook", d.WebhookHandler())

	return engine
}

func postUpdate(engine *gin.Engine, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	engine.ServeHTTP(rec, req)

	return rec
}

func TestWebhookHandler_FeedsDecodedUpdate(t *testing.T) {
	t.Parallel()

	handledText := ""

	root := router.New("root")
	root.Message().Register(func(_ context.Context, req event.Request) (event.Return, telerrors.Error) {
		handledText = req.Update.Text()

		return event.ReturnFinish, nil
	})

	rec := postUpdate(newWebhookServer(t, root),
		`{"update_id":1,"message":{"message_id":1,"chat":{"id":5},"from":{"id":5},"text":"hi"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hi", handledText)
}

func TestWebhookHandler_AcknowledgesUnknownKind(t *testing.T) {
	t.Parallel()

	rec := postUpdate(newWebhookServer(t, router.New("root")), `{"update_id":1}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookHandler_RejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	rec := postUpdate(newWebhookServer(t, router.New("root")),
		`{"update_id":1,"message":{`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookHandler_AcknowledgesFailedUpdate(t *testing.T) {
	t.Parallel()

	root := router.New("root")
	root.Message().Register(func(_ context.Context, _ event.Request) (event.Return, telerrors.Error) {
		return event.ReturnCancel, telerrors.FromString(telerrors.KindHandler, "boom")
	})

	rec := postUpdate(newWebhookServer(t, root),
		`{"update_id":1,"message":{"message_id":1,"chat":{"id":5},"text":"hi"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}
