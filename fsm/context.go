package fsm

import (
	"context"

	"github.com/Nnenty/telers/telerrors"
)

// Context is a thin per-request façade binding a Storage to one StorageKey.
// The FSM middleware builds it from the current event and publishes it into
// the request context so filters, middlewares and handlers share one handle.
type Context struct {
	storage Storage
	key     StorageKey
}

// NewContext binds storage to key.
func NewContext(storage Storage, key StorageKey) *Context {
	return &Context{
		storage: storage,
		key:     key,
	}
}

// Key returns the storage key this context is bound to.
func (c *Context) Key() StorageKey {
	return c.key
}

// Storage returns the raw storage handle.
func (c *Context) Storage() Storage {
	return c.storage
}

func (c *Context) SetState(ctx context.Context, state string) telerrors.Error {
	return c.storage.SetState(ctx, c.key, state)
}

func (c *Context) SetPreviousState(ctx context.Context) telerrors.Error {
	return c.storage.SetPreviousState(ctx, c.key)
}

func (c *Context) GetState(ctx context.Context) (string, bool, telerrors.Error) {
	return c.storage.GetState(ctx, c.key)
}

func (c *Context) GetStates(ctx context.Context) ([]string, telerrors.Error) {
	return c.storage.GetStates(ctx, c.key)
}

func (c *Context) RemoveStates(ctx context.Context) telerrors.Error {
	return c.storage.RemoveStates(ctx, c.key)
}

func (c *Context) SetData(ctx context.Context, data map[string]any) telerrors.Error {
	return c.storage.SetData(ctx, c.key, data)
}

func (c *Context) SetValue(ctx context.Context, field string, value any) telerrors.Error {
	return c.storage.SetValue(ctx, c.key, field, value)
}

func (c *Context) GetValue(
	ctx context.Context,
	field string,
	dest any,
) (bool, telerrors.Error) {
	return c.storage.GetValue(ctx, c.key, field, dest)
}

func (c *Context) GetData(ctx context.Context) (map[string][]byte, telerrors.Error) {
	return c.storage.GetData(ctx, c.key)
}

func (c *Context) RemoveData(ctx context.Context) telerrors.Error {
	return c.storage.RemoveData(ctx, c.key)
}

// Clear drops both the state stack and the data map, ending the
// conversation from the storage's point of view.
func (c *Context) Clear(ctx context.Context) telerrors.Error {
	if err := c.storage.RemoveStates(ctx, c.key); err != nil {
		return err.Wrap("failed to clear states")
	}

	if err := c.storage.RemoveData(ctx, c.key); err != nil {
		return err.Wrap("failed to clear data")
	}

	return nil
}
