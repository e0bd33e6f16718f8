package fsm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Nnenty/telers/telerrors"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix    = "fsm"
	redisKeySeparator = ":"
)

// Redis is a storage backed by a Redis server. The state stack lives in a
// list, the data map in a hash; single-command atomicity gives the per-key
// read-modify-write guarantee of the Storage contract.
type Redis struct {
	client *redis.Client
	codec  Codec
}

// NewRedis creates a Redis storage over an existing client. A nil codec
// falls back to JSON.
func NewRedis(client *redis.Client, codec Codec) *Redis {
	if codec == nil {
		codec = JSONCodec{}
	}

	return &Redis{
		client: client,
		codec:  codec,
	}
}

// buildKey renders a StorageKey as a flat Redis key:
// fsm:<bot>:<chat>:<user>[:t<thread>][:b<connection>]:<destiny>.
func buildKey(key StorageKey) string {
	parts := []string{
		redisKeyPrefix,
		fmt.Sprintf("%d", key.BotID),
		fmt.Sprintf("%d", key.ChatID),
		fmt.Sprintf("%d", key.UserID),
	}

	if key.MessageThreadID != 0 {
		parts = append(parts, fmt.Sprintf("t%d", key.MessageThreadID))
	}

	if key.BusinessConnectionID != "" {
		parts = append(parts, "b"+key.BusinessConnectionID)
	}

	destiny := key.Destiny
	if destiny == "" {
		destiny = DefaultDestiny
	}

	return strings.Join(append(parts, destiny), redisKeySeparator)
}

func statesKey(key StorageKey) string {
	return buildKey(key) + redisKeySeparator + "states"
}

func dataKey(key StorageKey) string {
	return buildKey(key) + redisKeySeparator + "data"
}

func (r *Redis) SetState(ctx context.Context, key StorageKey, state string) telerrors.Error {
	if err := r.client.RPush(ctx, statesKey(key), state).Err(); err != nil {
		return telerrors.FromError(
			telerrors.KindStorage,
			err,
			"[REDIS] failed to push state",
		)
	}

	return nil
}

func (r *Redis) SetPreviousState(ctx context.Context, key StorageKey) telerrors.Error {
	if err := r.client.RPop(ctx, statesKey(key)).Err(); err != nil &&
		!errors.Is(err, redis.Nil) {
		return telerrors.FromError(
			telerrors.KindStorage,
			err,
			"[REDIS] failed to pop state",
		)
	}

	return nil
}

func (r *Redis) GetState(ctx context.Context, key StorageKey) (string, bool, telerrors.Error) {
	state, err := r.client.LIndex(ctx, statesKey(key), -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, telerrors.FromError(
			telerrors.KindStorage,
			err,
			"[REDIS] failed to get current state",
		)
	}

	return state, true, nil
}

func (r *Redis) GetStates(ctx context.Context, key StorageKey) ([]string, telerrors.Error) {
	states, err := r.client.LRange(ctx, statesKey(key), 0, -1).Result()
	if err != nil {
		return nil, telerrors.FromError(
			telerrors.KindStorage,
			err,
			"[REDIS] failed to get states stack",
		)
	}

	return states, nil
}

func (r *Redis) RemoveStates(ctx context.Context, key StorageKey) telerrors.Error {
	if err := r.client.Del(ctx, statesKey(key)).Err(); err != nil {
		return telerrors.FromError(
			telerrors.KindStorage,
			err,
			"[REDIS] failed to remove states stack",
		)
	}

	return nil
}

func (r *Redis) SetData(ctx context.Context, key StorageKey, data map[string]any) telerrors.Error {
	encoded := make(map[string]any, len(data))

	for field, value := range data {
		raw, err := r.codec.Marshal(value)
		if err != nil {
			return telerrors.FromError(
				telerrors.KindStorage,
				err,
				fmt.Sprintf("[REDIS] failed to serialize value for field `%s`", field),
			)
		}

		encoded[field] = raw
	}

	// Replacing the whole map has to be one atomic unit, so old fields
	// never survive next to new ones.
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, dataKey(key))

		if len(encoded) > 0 {
			pipe.HSet(ctx, dataKey(key), encoded)
		}

		return nil
	})
	if err != nil {
		return telerrors.FromError(
			telerrors.KindStorage,
			err,
			"[REDIS] failed to replace data map",
		)
	}

	return nil
}

func (r *Redis) SetValue(
	ctx context.Context,
	key StorageKey,
	field string,
	value any,
) telerrors.Error {
	raw, err := r.codec.Marshal(value)
	if err != nil {
		return telerrors.FromError(
			telerrors.KindStorage,
			err,
			fmt.Sprintf("[REDIS] failed to serialize value for field `%s`", field),
		)
	}

	if err := r.client.HSet(ctx, dataKey(key), field, raw).Err(); err != nil {
		return telerrors.FromError(
			telerrors.KindStorage,
			err,
			fmt.Sprintf("[REDIS] failed to set value for field `%s`", field),
		)
	}

	return nil
}

func (r *Redis) GetValue(
	ctx context.Context,
	key StorageKey,
	field string,
	dest any,
) (bool, telerrors.Error) {
	raw, err := r.client.HGet(ctx, dataKey(key), field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}

		return false, telerrors.FromError(
			telerrors.KindStorage,
			err,
			fmt.Sprintf("[REDIS] failed to get value for field `%s`", field),
		)
	}

	if err := r.codec.Unmarshal([]byte(raw), dest); err != nil {
		return false, telerrors.FromError(
			telerrors.KindStorage,
			err,
			fmt.Sprintf("[REDIS] failed to deserialize value for field `%s`", field),
		)
	}

	return true, nil
}

func (r *Redis) GetData(ctx context.Context, key StorageKey) (map[string][]byte, telerrors.Error) {
	raw, err := r.client.HGetAll(ctx, dataKey(key)).Result()
	if err != nil {
		return nil, telerrors.FromError(
			telerrors.KindStorage,
			err,
			"[REDIS] failed to get data map",
		)
	}

	snapshot := make(map[string][]byte, len(raw))

	for field, value := range raw {
		snapshot[field] = []byte(value)
	}

	return snapshot, nil
}

func (r *Redis) RemoveData(ctx context.Context, key StorageKey) telerrors.Error {
	if err := r.client.Del(ctx, dataKey(key)).Err(); err != nil {
		return telerrors.FromError(
			telerrors.KindStorage,
			err,
			"[REDIS] failed to remove data map",
		)
	}

	return nil
}

func (r *Redis) Close() telerrors.Error {
	if err := r.client.Close(); err != nil {
		return telerrors.FromError(
			telerrors.KindStorage,
			err,
			"[REDIS] failed to close client",
		)
	}

	return nil
}
