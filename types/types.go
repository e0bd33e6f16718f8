package types

// Minimal mirror of the chat platform wire schema. Only the fields the
// dispatch core, the default middlewares and the filters need are declared;
// everything else stays in the raw JSON of the update.

// User represents a chat platform user or bot.
type User struct {
	ID           int64  `json:"id"`
	IsBot        bool   `json:"is_bot"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// Chat represents a conversation: private, group, supergroup or channel.
type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title,omitempty"`
	Username string `json:"username,omitempty"`
}

// Message represents an incoming message of any kind.
type Message struct {
	MessageID            int64    `json:"message_id"`
	From                 *User    `json:"from,omitempty"`
	Chat                 Chat     `json:"chat"`
	Date                 int64    `json:"date"`
	Text                 string   `json:"text,omitempty"`
	Caption              string   `json:"caption,omitempty"`
	MessageThreadID      int64    `json:"message_thread_id,omitempty"`
	BusinessConnectionID string   `json:"business_connection_id,omitempty"`
	ReplyToMessage       *Message `json:"reply_to_message,omitempty"`
}

// CallbackQuery represents an incoming callback query from an inline keyboard.
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

// InlineQuery represents an incoming inline query.
type InlineQuery struct {
	ID     string `json:"id"`
	From   User   `json:"from"`
	Query  string `json:"query"`
	Offset string `json:"offset"`
}

// ChosenInlineResult represents an inline query result chosen by a user.
type ChosenInlineResult struct {
	ResultID string `json:"result_id"`
	From     User   `json:"from"`
	Query    string `json:"query"`
}

// ShippingQuery represents an incoming shipping query.
type ShippingQuery struct {
	ID             string `json:"id"`
	From           User   `json:"from"`
	InvoicePayload string `json:"invoice_payload"`
}

// PreCheckoutQuery contains full information about an incoming checkout.
type PreCheckoutQuery struct {
	ID             string `json:"id"`
	From           User   `json:"from"`
	Currency       string `json:"currency"`
	TotalAmount    int64  `json:"total_amount"`
	InvoicePayload string `json:"invoice_payload"`
}

// PollOption contains information about one answer option in a poll.
type PollOption struct {
	Text       string `json:"text"`
	VoterCount int64  `json:"voter_count"`
}

// Poll contains information about a poll.
type Poll struct {
	ID       string       `json:"id"`
	Question string       `json:"question"`
	Options  []PollOption `json:"options"`
	IsClosed bool         `json:"is_closed"`
}

// PollAnswer represents an answer of a user in a non-anonymous poll.
type PollAnswer struct {
	PollID    string  `json:"poll_id"`
	VoterChat *Chat   `json:"voter_chat,omitempty"`
	User      *User   `json:"user,omitempty"`
	OptionIDs []int64 `json:"option_ids"`
}

// ChatMember holds the reduced member information the dispatch core needs.
type ChatMember struct {
	Status string `json:"status"`
	User   User   `json:"user"`
}

// ChatMemberUpdated represents changes in the status of a chat member.
type ChatMemberUpdated struct {
	Chat          Chat       `json:"chat"`
	From          User       `json:"from"`
	Date          int64      `json:"date"`
	OldChatMember ChatMember `json:"old_chat_member"`
	NewChatMember ChatMember `json:"new_chat_member"`
}

// ChatJoinRequest represents a join request sent to a chat.
type ChatJoinRequest struct {
	Chat Chat   `json:"chat"`
	From User   `json:"from"`
	Date int64  `json:"date"`
	Bio  string `json:"bio,omitempty"`
}

// MessageReactionUpdated represents a change of a reaction on a message.
type MessageReactionUpdated struct {
	Chat      Chat  `json:"chat"`
	MessageID int64 `json:"message_id"`
	User      *User `json:"user,omitempty"`
	ActorChat *Chat `json:"actor_chat,omitempty"`
	Date      int64 `json:"date"`
}

// MessageReactionCountUpdated represents anonymous reaction changes.
type MessageReactionCountUpdated struct {
	Chat       Chat  `json:"chat"`
	MessageID  int64 `json:"message_id"`
	Date       int64 `json:"date"`
	TotalCount int64 `json:"total_count"`
}

// BusinessConnection describes the connection of the bot with a business account.
type BusinessConnection struct {
	ID         string `json:"id"`
	User       User   `json:"user"`
	UserChatID int64  `json:"user_chat_id"`
	Date       int64  `json:"date"`
	IsEnabled  bool   `json:"is_enabled"`
}

// BusinessMessagesDeleted is received when messages are deleted from a
// connected business account.
type BusinessMessagesDeleted struct {
	BusinessConnectionID string  `json:"business_connection_id"`
	Chat                 Chat    `json:"chat"`
	MessageIDs           []int64 `json:"message_ids"`
}

// ChatBoostUpdated represents a boost added to a chat or changed.
type ChatBoostUpdated struct {
	Chat Chat `json:"chat"`
}

// ChatBoostRemoved represents a boost removed from a chat.
type ChatBoostRemoved struct {
	Chat       Chat  `json:"chat"`
	RemoveDate int64 `json:"remove_date"`
}
