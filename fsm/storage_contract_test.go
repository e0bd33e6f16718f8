package fsm_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nnenty/telers/fsm"
)

// orderForm mirrors the shape handlers persist between steps of a
// conversation, including optional fields that may stay unset.
type orderForm struct {
	Name    string `json:"name"`
	Comment string `json:"comment,omitempty"`
	Floor   *int   `json:"floor,omitempty"`
}

func contractKey(userID int64) fsm.StorageKey {
	return fsm.StorageKey{
		BotID:   1,
		ChatID:  100,
		UserID:  userID,
		Destiny: fsm.DefaultDestiny,
	}
}

// runStorageContract exercises the behavior every backend must implement
// identically.
func runStorageContract(t *testing.T, storage fsm.Storage) {
	t.Helper()

	ctx := context.Background()
	key := contractKey(10)
	other := contractKey(11)

	t.Run("[GetState] - absent key yields no state", func(t *testing.T) {
		state, ok, err := storage.GetState(ctx, contractKey(999))

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, state)
	})

	t.Run("[SetState] - states stack in push order", func(t *testing.T) {
		require.NoError(t, storage.SetState(ctx, key, "menu"))
		require.NoError(t, storage.SetState(ctx, key, "checkout"))
		require.NoError(t, storage.SetState(ctx, key, "payment"))

		state, ok, err := storage.GetState(ctx, key)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "payment", state)

		states, err := storage.GetStates(ctx, key)

		require.NoError(t, err)
		assert.Equal(t, []string{"menu", "checkout", "payment"}, states)
	})

	t.Run("[SetPreviousState] - pops the top of the stack", func(t *testing.T) {
		require.NoError(t, storage.SetPreviousState(ctx, key))

		state, ok, err := storage.GetState(ctx, key)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "checkout", state)
	})

	t.Run("[SetPreviousState] - no-op on an absent key", func(t *testing.T) {
		require.NoError(t, storage.SetPreviousState(ctx, contractKey(999)))
	})

	t.Run("[RemoveStates] - clears the stack but keeps data", func(t *testing.T) {
		require.NoError(t, storage.SetValue(ctx, key, "name", "alice"))
		require.NoError(t, storage.RemoveStates(ctx, key))

		states, err := storage.GetStates(ctx, key)

		require.NoError(t, err)
		assert.Empty(t, states)

		var name string
		ok, err := storage.GetValue(ctx, key, "name", &name)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "alice", name)
	})

	t.Run("[SetData] - replaces the whole map", func(t *testing.T) {
		require.NoError(t, storage.SetData(ctx, key, map[string]any{
			"name": "bob",
			"city": "berlin",
		}))

		var city string
		ok, err := storage.GetValue(ctx, key, "city", &city)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "berlin", city)

		require.NoError(t, storage.SetData(ctx, key, map[string]any{"name": "bob"}))

		ok, err = storage.GetValue(ctx, key, "city", &city)

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("[SetData] - empty map clears data, states survive", func(t *testing.T) {
		require.NoError(t, storage.SetState(ctx, key, "confirm"))
		require.NoError(t, storage.SetData(ctx, key, map[string]any{}))

		data, err := storage.GetData(ctx, key)

		require.NoError(t, err)
		assert.Empty(t, data)

		state, ok, err := storage.GetState(ctx, key)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "confirm", state)
	})

	t.Run("[GetValue] - missing field is absence, not an error", func(t *testing.T) {
		var dest string
		ok, err := storage.GetValue(ctx, key, "never-set", &dest)

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("[SetValue] - struct with unset optional fields round-trips", func(t *testing.T) {
		want := orderForm{Name: "carol"}

		require.NoError(t, storage.SetValue(ctx, key, "form", want))

		var got orderForm
		ok, err := storage.GetValue(ctx, key, "form", &got)

		require.NoError(t, err)
		assert.True(t, ok)

		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("form changed in round-trip (-want +got):\n%s", diff)
		}
	})

	t.Run("[RemoveData] - clears data but keeps states", func(t *testing.T) {
		require.NoError(t, storage.RemoveData(ctx, key))

		data, err := storage.GetData(ctx, key)

		require.NoError(t, err)
		assert.Empty(t, data)

		states, err := storage.GetStates(ctx, key)

		require.NoError(t, err)
		assert.NotEmpty(t, states)
	})

	t.Run("[StorageKey] - distinct keys are isolated", func(t *testing.T) {
		require.NoError(t, storage.SetState(ctx, other, "other-state"))

		states, err := storage.GetStates(ctx, other)

		require.NoError(t, err)
		assert.Equal(t, []string{"other-state"}, states)

		ownStates, err := storage.GetStates(ctx, key)

		require.NoError(t, err)
		assert.NotContains(t, ownStates, "other-state")
	})

	t.Run("[StorageKey] - thread id scopes the key", func(t *testing.T) {
		plain := contractKey(20)
		threaded := contractKey(20)
		threaded.MessageThreadID = 5

		require.NoError(t, storage.SetState(ctx, threaded, "thread-state"))

		states, err := storage.GetStates(ctx, plain)

		require.NoError(t, err)
		assert.Empty(t, states)

		require.NoError(t, storage.SetState(ctx, plain, "plain-state"))

		states, err = storage.GetStates(ctx, threaded)

		require.NoError(t, err)
		assert.Equal(t, []string{"thread-state"}, states)
	})

	t.Run("[StorageKey] - business connection id scopes the key", func(t *testing.T) {
		plain := contractKey(21)
		connected := contractKey(21)
		connected.BusinessConnectionID = "biz"

		require.NoError(t, storage.SetValue(ctx, connected, "owner", "dave"))

		var owner string
		ok, err := storage.GetValue(ctx, plain, "owner", &owner)

		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, storage.SetValue(ctx, plain, "owner", "erin"))

		ok, err = storage.GetValue(ctx, connected, "owner", &owner)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "dave", owner)
	})
}

// runStorageConcurrency pushes states to the same key and to distinct keys
// from many goroutines; per-key serialization must keep every push.
func runStorageConcurrency(t *testing.T, storage fsm.Storage) {
	t.Helper()

	const workers = 50

	ctx := context.Background()
	shared := contractKey(777)

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			assert.NoError(t, storage.SetState(ctx, shared, fmt.Sprintf("state-%d", i)))
			assert.NoError(t, storage.SetValue(ctx, contractKey(int64(1000+i)), "slot", i))
		}(i)
	}

	wg.Wait()

	states, err := storage.GetStates(ctx, shared)

	require.NoError(t, err)
	assert.Len(t, states, workers)

	for i := 0; i < workers; i++ {
		var slot int
		ok, err := storage.GetValue(ctx, contractKey(int64(1000+i)), "slot", &slot)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, i, slot)
	}
}
