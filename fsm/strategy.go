package fsm

// Strategy chooses which raw identifiers compose a StorageKey.
//
// UserInChat keeps a separate state per user per chat. Chat shares one state
// across all users of the chat. GlobalUser keeps one state per user across
// all chats. The Thread variants additionally scope by forum thread, the
// Connection variants by business connection. In direct messages chat and
// user ids are equal, so all strategies behave the same there.
type Strategy uint8

const (
	// StrategyUserInChat scopes by chat_id + user_id. The default.
	StrategyUserInChat Strategy = iota
	// StrategyChat scopes by chat_id only.
	StrategyChat
	// StrategyGlobalUser scopes by user_id only, independent of the chat.
	StrategyGlobalUser
	// StrategyUserInThread scopes by chat_id + user_id + thread.
	StrategyUserInThread
	// StrategyChatThread scopes by chat_id + thread.
	StrategyChatThread
	// StrategyUserInChatAndConnection is UserInChat plus the business
	// connection id.
	StrategyUserInChatAndConnection
	// StrategyChatAndConnection is Chat plus the business connection id.
	StrategyChatAndConnection
	// StrategyGlobalUserAndConnection is GlobalUser plus the business
	// connection id.
	StrategyGlobalUserAndConnection
	// StrategyUserInThreadAndConnection is UserInThread plus the business
	// connection id.
	StrategyUserInThreadAndConnection
	// StrategyChatThreadAndConnection is ChatThread plus the business
	// connection id.
	StrategyChatThreadAndConnection
)

func (s Strategy) String() string {
	switch s {
	case StrategyUserInChat:
		return "user_in_chat"
	case StrategyChat:
		return "chat"
	case StrategyGlobalUser:
		return "global_user"
	case StrategyUserInThread:
		return "user_in_thread"
	case StrategyChatThread:
		return "chat_thread"
	case StrategyUserInChatAndConnection:
		return "user_in_chat_and_connection"
	case StrategyChatAndConnection:
		return "chat_and_connection"
	case StrategyGlobalUserAndConnection:
		return "global_user_and_connection"
	case StrategyUserInThreadAndConnection:
		return "user_in_thread_and_connection"
	case StrategyChatThreadAndConnection:
		return "chat_thread_and_connection"
	default:
		return "unknown"
	}
}

// IDPair is the subset of identifiers a strategy selected for a StorageKey.
type IDPair struct {
	ChatID               int64
	UserID               int64
	MessageThreadID      int64
	BusinessConnectionID string
}

// Apply deterministically computes the identifiers that become part of the
// StorageKey. Zero thread id and empty connection id mean "absent".
func (s Strategy) Apply(
	chatID, userID int64,
	messageThreadID int64,
	businessConnectionID string,
) IDPair {
	switch s {
	case StrategyUserInChat:
		return IDPair{ChatID: chatID, UserID: userID}
	case StrategyUserInChatAndConnection:
		return IDPair{ChatID: chatID, UserID: userID, BusinessConnectionID: businessConnectionID}
	case StrategyChat:
		return IDPair{ChatID: chatID, UserID: chatID}
	case StrategyChatAndConnection:
		return IDPair{ChatID: chatID, UserID: chatID, BusinessConnectionID: businessConnectionID}
	case StrategyGlobalUser:
		return IDPair{ChatID: userID, UserID: userID}
	case StrategyGlobalUserAndConnection:
		return IDPair{ChatID: userID, UserID: userID, BusinessConnectionID: businessConnectionID}
	case StrategyUserInThread:
		return IDPair{ChatID: chatID, UserID: userID, MessageThreadID: messageThreadID}
	case StrategyUserInThreadAndConnection:
		return IDPair{
			ChatID:               chatID,
			UserID:               userID,
			MessageThreadID:      messageThreadID,
			BusinessConnectionID: businessConnectionID,
		}
	case StrategyChatThread:
		return IDPair{ChatID: chatID, UserID: chatID, MessageThreadID: messageThreadID}
	case StrategyChatThreadAndConnection:
		return IDPair{
			ChatID:               chatID,
			UserID:               chatID,
			MessageThreadID:      messageThreadID,
			BusinessConnectionID: businessConnectionID,
		}
	default:
		return IDPair{ChatID: chatID, UserID: userID}
	}
}
