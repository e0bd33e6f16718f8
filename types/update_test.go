package types_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nnenty/telers/types"
)

func TestUpdate_Type(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		update types.Update
		want   types.UpdateType
	}{
		{
			name:   "message",
			update: types.Update{Message: &types.Message{}},
			want:   types.UpdateTypeMessage,
		},
		{
			name:   "edited message",
			update: types.Update{EditedMessage: &types.Message{}},
			want:   types.UpdateTypeEditedMessage,
		},
		{
			name:   "callback query",
			update: types.Update{CallbackQuery: &types.CallbackQuery{}},
			want:   types.UpdateTypeCallbackQuery,
		},
		{
			name:   "poll answer",
			update: types.Update{PollAnswer: &types.PollAnswer{}},
			want:   types.UpdateTypePollAnswer,
		},
		{
			name:   "chat boost",
			update: types.Update{ChatBoost: &types.ChatBoostUpdated{}},
			want:   types.UpdateTypeChatBoost,
		},
		{
			name:   "empty",
			update: types.Update{},
			want:   types.UpdateTypeUnknown,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.update.Type())
		})
	}
}

func TestUpdate_UserAndChatResolution(t *testing.T) {
	t.Parallel()

	update := types.Update{
		CallbackQuery: &types.CallbackQuery{
			From: types.User{ID: 7},
			Message: &types.Message{
				Chat: types.Chat{ID: -100},
			},
		},
	}

	user := update.User()

	require.NotNil(t, user)
	assert.Equal(t, int64(7), user.ID)

	chat := update.Chat()

	require.NotNil(t, chat)
	assert.Equal(t, int64(-100), chat.ID)

	t.Run("[Chat] - callback query without message has no chat", func(t *testing.T) {
		bare := types.Update{CallbackQuery: &types.CallbackQuery{From: types.User{ID: 7}}}

		assert.Nil(t, bare.Chat())
	})
}

func TestUpdate_TextFallsBackToCaption(t *testing.T) {
	t.Parallel()

	update := types.Update{Message: &types.Message{Caption: "photo caption"}}

	assert.Equal(t, "photo caption", update.Text())
}

func TestTypeOfRaw(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"update_id":1,"callback_query":{"id":"q","from":{"id":7},"data":"x"}}`)

	assert.Equal(t, types.UpdateTypeCallbackQuery, types.TypeOfRaw(raw))
	assert.Equal(t, types.UpdateTypeUnknown, types.TypeOfRaw([]byte(`{"update_id":1}`)))

	t.Run("[TypeOfRaw] - agrees with full decoding", func(t *testing.T) {
		var update types.Update

		require.NoError(t, json.Unmarshal(raw, &update))
		assert.Equal(t, update.Type(), types.TypeOfRaw(raw))
	})
}

func TestUpdate_BusinessIdentifiers(t *testing.T) {
	t.Parallel()

	update := types.Update{
		BusinessMessage: &types.Message{
			BusinessConnectionID: "conn-1",
			MessageThreadID:      9,
		},
	}

	assert.Equal(t, "conn-1", update.BusinessConnectionID())
	assert.Equal(t, int64(9), update.MessageThreadID())
}
