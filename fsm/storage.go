package fsm

import (
	"context"

	"github.com/Nnenty/telers/telerrors"
)

// DefaultDestiny is the namespace tag used when no custom one is set.
const DefaultDestiny = "default"

// StorageKey is the unique addressing of one conversation's persisted state.
// Zero MessageThreadID and empty BusinessConnectionID mean the identifier is
// not part of the key. Value equality fully determines identity.
type StorageKey struct {
	BotID                int64
	ChatID               int64
	UserID               int64
	MessageThreadID      int64
	BusinessConnectionID string
	Destiny              string
}

// Storage is the pluggable persistence contract for conversation state.
//
// Every record holds an ordered stack of state names and a string-keyed map
// of serialized values. A backend must serialize concurrent operations
// against the same key (read-modify-write must not race) but may process
// distinct keys fully in parallel.
//
// Be aware, storage is part of the FSM pattern; don't use it as a general
// database for user data unrelated to the state machine.
type Storage interface {
	// SetState pushes state onto the key's state stack, creating the
	// record if absent.
	SetState(ctx context.Context, key StorageKey, state string) telerrors.Error

	// SetPreviousState pops the top of the state stack. No-op if the
	// record is absent or the stack is empty.
	SetPreviousState(ctx context.Context, key StorageKey) telerrors.Error

	// GetState returns the top of the state stack; ok is false when there
	// is none.
	GetState(ctx context.Context, key StorageKey) (state string, ok bool, err telerrors.Error)

	// GetStates returns the full state stack, oldest first; empty if absent.
	GetStates(ctx context.Context, key StorageKey) ([]string, telerrors.Error)

	// RemoveStates clears the state stack only; data is untouched.
	RemoveStates(ctx context.Context, key StorageKey) telerrors.Error

	// SetData replaces the entire data map. An empty map clears it without
	// discarding the state stack.
	SetData(ctx context.Context, key StorageKey, data map[string]any) telerrors.Error

	// SetValue serializes value and stores it under field.
	SetValue(ctx context.Context, key StorageKey, field string, value any) telerrors.Error

	// GetValue deserializes the value under field into dest; ok is false
	// when the field is missing, which is not an error.
	GetValue(
		ctx context.Context,
		key StorageKey,
		field string,
		dest any,
	) (ok bool, err telerrors.Error)

	// GetData returns a snapshot of the data map in serialized form;
	// empty map if absent.
	GetData(ctx context.Context, key StorageKey) (map[string][]byte, telerrors.Error)

	// RemoveData clears the data map only; the state stack is untouched.
	RemoveData(ctx context.Context, key StorageKey) telerrors.Error

	// Close releases backend resources.
	Close() telerrors.Error
}
