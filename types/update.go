package types

import "github.com/tidwall/gjson"

// UpdateType identifies which event kind an Update carries.
type UpdateType string

const (
	UpdateTypeMessage                 UpdateType = "message"
	UpdateTypeEditedMessage           UpdateType = "edited_message"
	UpdateTypeChannelPost             UpdateType = "channel_post"
	UpdateTypeEditedChannelPost       UpdateType = "edited_channel_post"
	UpdateTypeBusinessConnection      UpdateType = "business_connection"
	UpdateTypeBusinessMessage         UpdateType = "business_message"
	UpdateTypeEditedBusinessMessage   UpdateType = "edited_business_message"
	UpdateTypeDeletedBusinessMessages UpdateType = "deleted_business_messages"
	UpdateTypeMessageReaction         UpdateType = "message_reaction"
	UpdateTypeMessageReactionCount    UpdateType = "message_reaction_count"
	UpdateTypeInlineQuery             UpdateType = "inline_query"
	UpdateTypeChosenInlineResult      UpdateType = "chosen_inline_result"
	UpdateTypeCallbackQuery           UpdateType = "callback_query"
	UpdateTypeShippingQuery           UpdateType = "shipping_query"
	UpdateTypePreCheckoutQuery        UpdateType = "pre_checkout_query"
	UpdateTypePoll                    UpdateType = "poll"
	UpdateTypePollAnswer              UpdateType = "poll_answer"
	UpdateTypeMyChatMember            UpdateType = "my_chat_member"
	UpdateTypeChatMember              UpdateType = "chat_member"
	UpdateTypeChatJoinRequest         UpdateType = "chat_join_request"
	UpdateTypeChatBoost               UpdateType = "chat_boost"
	UpdateTypeRemovedChatBoost        UpdateType = "removed_chat_boost"

	// UpdateTypeUnknown marks an update with no recognized kind populated.
	UpdateTypeUnknown UpdateType = "unknown"
)

// AllUpdateTypes lists every concrete event kind in wire order.
func AllUpdateTypes() []UpdateType {
	return []UpdateType{
		UpdateTypeMessage,
		UpdateTypeEditedMessage,
		UpdateTypeChannelPost,
		UpdateTypeEditedChannelPost,
		UpdateTypeBusinessConnection,
		UpdateTypeBusinessMessage,
		UpdateTypeEditedBusinessMessage,
		UpdateTypeDeletedBusinessMessages,
		UpdateTypeMessageReaction,
		UpdateTypeMessageReactionCount,
		UpdateTypeInlineQuery,
		UpdateTypeChosenInlineResult,
		UpdateTypeCallbackQuery,
		UpdateTypeShippingQuery,
		UpdateTypePreCheckoutQuery,
		UpdateTypePoll,
		UpdateTypePollAnswer,
		UpdateTypeMyChatMember,
		UpdateTypeChatMember,
		UpdateTypeChatJoinRequest,
		UpdateTypeChatBoost,
		UpdateTypeRemovedChatBoost,
	}
}

// Update is one event delivered from the chat platform. Exactly one of the
// kind fields is populated per instance.
type Update struct {
	ID int64 `json:"update_id"`

	Message                 *Message                     `json:"message,omitempty"`
	EditedMessage           *Message                     `json:"edited_message,omitempty"`
	ChannelPost             *Message                     `json:"channel_post,omitempty"`
	EditedChannelPost       *Message                     `json:"edited_channel_post,omitempty"`
	BusinessConnection      *BusinessConnection          `json:"business_connection,omitempty"`
	BusinessMessage         *Message                     `json:"business_message,omitempty"`
	EditedBusinessMessage   *Message                     `json:"edited_business_message,omitempty"`
	DeletedBusinessMessages *BusinessMessagesDeleted     `json:"deleted_business_messages,omitempty"`
	MessageReaction         *MessageReactionUpdated      `json:"message_reaction,omitempty"`
	MessageReactionCount    *MessageReactionCountUpdated `json:"message_reaction_count,omitempty"`
	InlineQuery             *InlineQuery                 `json:"inline_query,omitempty"`
	ChosenInlineResult      *ChosenInlineResult          `json:"chosen_inline_result,omitempty"`
	CallbackQuery           *CallbackQuery               `json:"callback_query,omitempty"`
	ShippingQuery           *ShippingQuery               `json:"shipping_query,omitempty"`
	PreCheckoutQuery        *PreCheckoutQuery            `json:"pre_checkout_query,omitempty"`
	Poll                    *Poll                        `json:"poll,omitempty"`
	PollAnswer              *PollAnswer                  `json:"poll_answer,omitempty"`
	MyChatMember            *ChatMemberUpdated           `json:"my_chat_member,omitempty"`
	ChatMember              *ChatMemberUpdated           `json:"chat_member,omitempty"`
	ChatJoinRequest         *ChatJoinRequest             `json:"chat_join_request,omitempty"`
	ChatBoost               *ChatBoostUpdated            `json:"chat_boost,omitempty"`
	RemovedChatBoost        *ChatBoostRemoved            `json:"removed_chat_boost,omitempty"`
}

// Type reports which event kind is populated.
func (u *Update) Type() UpdateType {
	switch {
	case u.Message != nil:
		return UpdateTypeMessage
	case u.EditedMessage != nil:
		return UpdateTypeEditedMessage
	case u.ChannelPost != nil:
		return UpdateTypeChannelPost
	case u.EditedChannelPost != nil:
		return UpdateTypeEditedChannelPost
	case u.BusinessConnection != nil:
		return UpdateTypeBusinessConnection
	case u.BusinessMessage != nil:
		return UpdateTypeBusinessMessage
	case u.EditedBusinessMessage != nil:
		return UpdateTypeEditedBusinessMessage
	case u.DeletedBusinessMessages != nil:
		return UpdateTypeDeletedBusinessMessages
	case u.MessageReaction != nil:
		return UpdateTypeMessageReaction
	case u.MessageReactionCount != nil:
		return UpdateTypeMessageReactionCount
	case u.InlineQuery != nil:
		return UpdateTypeInlineQuery
	case u.ChosenInlineResult != nil:
		return UpdateTypeChosenInlineResult
	case u.CallbackQuery != nil:
		return UpdateTypeCallbackQuery
	case u.ShippingQuery != nil:
		return UpdateTypeShippingQuery
	case u.PreCheckoutQuery != nil:
		return UpdateTypePreCheckoutQuery
	case u.Poll != nil:
		return UpdateTypePoll
	case u.PollAnswer != nil:
		return UpdateTypePollAnswer
	case u.MyChatMember != nil:
		return UpdateTypeMyChatMember
	case u.ChatMember != nil:
		return UpdateTypeChatMember
	case u.ChatJoinRequest != nil:
		return UpdateTypeChatJoinRequest
	case u.ChatBoost != nil:
		return UpdateTypeChatBoost
	case u.RemovedChatBoost != nil:
		return UpdateTypeRemovedChatBoost
	default:
		return UpdateTypeUnknown
	}
}

// anyMessage returns whichever message variant is populated.
func (u *Update) anyMessage() *Message {
	switch {
	case u.Message != nil:
		return u.Message
	case u.EditedMessage != nil:
		return u.EditedMessage
	case u.ChannelPost != nil:
		return u.ChannelPost
	case u.EditedChannelPost != nil:
		return u.EditedChannelPost
	case u.BusinessMessage != nil:
		return u.BusinessMessage
	case u.EditedBusinessMessage != nil:
		return u.EditedBusinessMessage
	default:
		return nil
	}
}

// User returns the user who produced the event, if the event carries one.
func (u *Update) User() *User {
	if m := u.anyMessage(); m != nil {
		return m.From
	}

	switch {
	case u.BusinessConnection != nil:
		return &u.BusinessConnection.User
	case u.MessageReaction != nil:
		return u.MessageReaction.User
	case u.InlineQuery != nil:
		return &u.InlineQuery.From
	case u.ChosenInlineResult != nil:
		return &u.ChosenInlineResult.From
	case u.CallbackQuery != nil:
		return &u.CallbackQuery.From
	case u.ShippingQuery != nil:
		return &u.ShippingQuery.From
	case u.PreCheckoutQuery != nil:
		return &u.PreCheckoutQuery.From
	case u.PollAnswer != nil:
		return u.PollAnswer.User
	case u.MyChatMember != nil:
		return &u.MyChatMember.From
	case u.ChatMember != nil:
		return &u.ChatMember.From
	case u.ChatJoinRequest != nil:
		return &u.ChatJoinRequest.From
	default:
		return nil
	}
}

// Chat returns the chat the event happened in, if the event carries one.
func (u *Update) Chat() *Chat {
	if m := u.anyMessage(); m != nil {
		return &m.Chat
	}

	switch {
	case u.DeletedBusinessMessages != nil:
		return &u.DeletedBusinessMessages.Chat
	case u.MessageReaction != nil:
		return &u.MessageReaction.Chat
	case u.MessageReactionCount != nil:
		return &u.MessageReactionCount.Chat
	case u.CallbackQuery != nil:
		if u.CallbackQuery.Message != nil {
			return &u.CallbackQuery.Message.Chat
		}

		return nil
	case u.PollAnswer != nil:
		return u.PollAnswer.VoterChat
	case u.MyChatMember != nil:
		return &u.MyChatMember.Chat
	case u.ChatMember != nil:
		return &u.ChatMember.Chat
	case u.ChatJoinRequest != nil:
		return &u.ChatJoinRequest.Chat
	case u.ChatBoost != nil:
		return &u.ChatBoost.Chat
	case u.RemovedChatBoost != nil:
		return &u.RemovedChatBoost.Chat
	default:
		return nil
	}
}

// MessageThreadID returns the forum thread id of the event, zero if absent.
func (u *Update) MessageThreadID() int64 {
	if m := u.anyMessage(); m != nil {
		return m.MessageThreadID
	}

	return 0
}

// BusinessConnectionID returns the business connection id of the event,
// empty if absent.
func (u *Update) BusinessConnectionID() string {
	if m := u.anyMessage(); m != nil {
		return m.BusinessConnectionID
	}

	switch {
	case u.BusinessConnection != nil:
		return u.BusinessConnection.ID
	case u.DeletedBusinessMessages != nil:
		return u.DeletedBusinessMessages.BusinessConnectionID
	default:
		return ""
	}
}

// Text returns the text or caption of the event message, empty if absent.
func (u *Update) Text() string {
	if m := u.anyMessage(); m != nil {
		if m.Text != "" {
			return m.Text
		}

		return m.Caption
	}

	return ""
}

// TypeOfRaw discriminates the event kind of a raw JSON update without
// decoding the whole payload.
func TypeOfRaw(raw []byte) UpdateType {
	for _, updateType := range AllUpdateTypes() {
		if gjson.GetBytes(raw, string(updateType)).Exists() {
			return updateType
		}
	}

	return UpdateTypeUnknown
}
