package fsm_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Nnenty/telers/fsm"
)

func setupTestRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()

	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return client
}

func TestRedisStorage_Contract(t *testing.T) {
	runStorageContract(t, fsm.NewRedis(setupTestRedis(t), nil))
}

func TestRedisStorage_ContractWithMsgpack(t *testing.T) {
	runStorageContract(t, fsm.NewRedis(setupTestRedis(t), fsm.MsgpackCodec{}))
}

func TestRedisStorage_Concurrency(t *testing.T) {
	runStorageConcurrency(t, fsm.NewRedis(setupTestRedis(t), nil))
}

func TestRedisStorage_KeysCarryEveryIdentifier(t *testing.T) {
	client := setupTestRedis(t)
	storage := fsm.NewRedis(client, nil)

	key := fsm.StorageKey{
		BotID:                1,
		ChatID:               2,
		UserID:               3,
		MessageThreadID:      4,
		BusinessConnectionID: "biz",
		Destiny:              "wizard",
	}

	ctx := context.Background()

	require.NoError(t, storage.SetState(ctx, key, "step"))

	keys, err := client.Keys(ctx, "fsm:1:2:3:t4:bbiz:wizard:*").Result()

	require.NoError(t, err)
	require.Len(t, keys, 1)
}
