package event

import (
	"github.com/Nnenty/telers/telerrors"
	"github.com/Nnenty/telers/types"
)

// Built-in extractors, one per update payload. Each returns ErrNoMatch when
// the update carries a different payload, which Typed turns into a Skip.

func noMatch(what string) telerrors.Error {
	return telerrors.FromError(
		telerrors.KindExtraction,
		telerrors.ErrNoMatch,
		"update carries no "+what,
	)
}

func MessageExtractor(req Request) (*types.Message, telerrors.Error) {
	if msg := req.Update.Message; msg != nil {
		return msg, nil
	}

	return nil, noMatch("message")
}

func EditedMessageExtractor(req Request) (*types.Message, telerrors.Error) {
	if msg := req.Update.EditedMessage; msg != nil {
		return msg, nil
	}

	return nil, noMatch("edited message")
}

func ChannelPostExtractor(req Request) (*types.Message, telerrors.Error) {
	if msg := req.Update.ChannelPost; msg != nil {
		return msg, nil
	}

	return nil, noMatch("channel post")
}

func CallbackQueryExtractor(req Request) (*types.CallbackQuery, telerrors.Error) {
	if query := req.Update.CallbackQuery; query != nil {
		return query, nil
	}

	return nil, noMatch("callback query")
}

func InlineQueryExtractor(req Request) (*types.InlineQuery, telerrors.Error) {
	if query := req.Update.InlineQuery; query != nil {
		return query, nil
	}

	return nil, noMatch("inline query")
}

func ChosenInlineResultExtractor(req Request) (*types.ChosenInlineResult, telerrors.Error) {
	if result := req.Update.ChosenInlineResult; result != nil {
		return result, nil
	}

	return nil, noMatch("chosen inline result")
}

func ShippingQueryExtractor(req Request) (*types.ShippingQuery, telerrors.Error) {
	if query := req.Update.ShippingQuery; query != nil {
		return query, nil
	}

	return nil, noMatch("shipping query")
}

func PreCheckoutQueryExtractor(req Request) (*types.PreCheckoutQuery, telerrors.Error) {
	if query := req.Update.PreCheckoutQuery; query != nil {
		return query, nil
	}

	return nil, noMatch("pre-checkout query")
}

func PollExtractor(req Request) (*types.Poll, telerrors.Error) {
	if poll := req.Update.Poll; poll != nil {
		return poll, nil
	}

	return nil, noMatch("poll")
}

func PollAnswerExtractor(req Request) (*types.PollAnswer, telerrors.Error) {
	if answer := req.Update.PollAnswer; answer != nil {
		return answer, nil
	}

	return nil, noMatch("poll answer")
}

func ChatMemberExtractor(req Request) (*types.ChatMemberUpdated, telerrors.Error) {
	if member := req.Update.ChatMember; member != nil {
		return member, nil
	}

	return nil, noMatch("chat member change")
}

func MyChatMemberExtractor(req Request) (*types.ChatMemberUpdated, telerrors.Error) {
	if member := req.Update.MyChatMember; member != nil {
		return member, nil
	}

	return nil, noMatch("own chat member change")
}

func ChatJoinRequestExtractor(req Request) (*types.ChatJoinRequest, telerrors.Error) {
	if request := req.Update.ChatJoinRequest; request != nil {
		return request, nil
	}

	return nil, noMatch("chat join request")
}
