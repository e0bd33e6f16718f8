package event

import (
	"github.com/Nnenty/telers/bot"
	"github.com/Nnenty/telers/fsm"
	"github.com/Nnenty/telers/types"
)

// Request is the immutable bundle passed through every dispatch stage.
// Bot and Update are shared read-only; Context is the mutable per-update
// bag of derived values.
type Request struct {
	Bot     *bot.Bot
	Update  *types.Update
	Context *Context
}

// NewRequest creates a Request with a fresh Context.
func NewRequest(b *bot.Bot, update *types.Update) Request {
	return Request{
		Bot:     b,
		Update:  update,
		Context: NewContext(),
	}
}

// Context carries values derived once per update between dispatch stages, so
// later stages don't re-derive them. It is a closed set of typed slots
// instead of a type-erased bag: every slot is written at most once (the
// first write wins) and read many times without casts.
//
// One update is processed by one goroutine, so the slots need no locking.
type Context struct {
	user                 *types.User
	chat                 *types.Chat
	messageThreadID      int64
	businessConnectionID string
	requestID            string

	fsmContext *fsm.Context
	fsmStorage fsm.Storage
	rawState   *string
}

// NewContext creates an empty Context.
func NewContext() *Context {
	return &Context{}
}

// SetEventUser publishes the resolved user of the event. The first write
// wins.
func (c *Context) SetEventUser(user *types.User) {
	if c.user == nil {
		c.user = user
	}
}

// EventUser returns the resolved user, nil if the event carries none.
func (c *Context) EventUser() *types.User {
	return c.user
}

// SetEventChat publishes the resolved chat of the event. The first write
// wins.
func (c *Context) SetEventChat(chat *types.Chat) {
	if c.chat == nil {
		c.chat = chat
	}
}

// EventChat returns the resolved chat, nil if the event carries none.
func (c *Context) EventChat() *types.Chat {
	return c.chat
}

// SetMessageThreadID publishes the forum thread id. The first non-zero
// write wins.
func (c *Context) SetMessageThreadID(threadID int64) {
	if c.messageThreadID == 0 {
		c.messageThreadID = threadID
	}
}

// MessageThreadID returns the forum thread id, zero if absent.
func (c *Context) MessageThreadID() int64 {
	return c.messageThreadID
}

// SetBusinessConnectionID publishes the business connection id. The first
// non-empty write wins.
func (c *Context) SetBusinessConnectionID(connectionID string) {
	if c.businessConnectionID == "" {
		c.businessConnectionID = connectionID
	}
}

// BusinessConnectionID returns the business connection id, empty if absent.
func (c *Context) BusinessConnectionID() string {
	return c.businessConnectionID
}

// SetRequestID publishes the correlation id of this dispatch. The first
// write wins.
func (c *Context) SetRequestID(requestID string) {
	if c.requestID == "" {
		c.requestID = requestID
	}
}

// RequestID returns the correlation id, empty if none was assigned.
func (c *Context) RequestID() string {
	return c.requestID
}

// SetFSM publishes the conversation state handle built for this event.
// The first write wins.
func (c *Context) SetFSM(fsmContext *fsm.Context) {
	if c.fsmContext == nil {
		c.fsmContext = fsmContext
	}
}

// FSM returns the conversation state handle, nil when no user could be
// resolved from the event.
func (c *Context) FSM() *fsm.Context {
	return c.fsmContext
}

// SetFSMStorage publishes the raw storage handle. The first write wins.
func (c *Context) SetFSMStorage(storage fsm.Storage) {
	if c.fsmStorage == nil {
		c.fsmStorage = storage
	}
}

// FSMStorage returns the raw storage handle, nil if none is installed.
func (c *Context) FSMStorage() fsm.Storage {
	return c.fsmStorage
}

// SetRawState publishes the pre-fetched current state of the conversation.
// The first write wins.
func (c *Context) SetRawState(state string) {
	if c.rawState == nil {
		c.rawState = &state
	}
}

// RawState returns the pre-fetched state; ok is false when the
// conversation had no state at dispatch time.
func (c *Context) RawState() (string, bool) {
	if c.rawState == nil {
		return "", false
	}

	return *c.rawState, true
}
