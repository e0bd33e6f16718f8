package fsm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Nnenty/telers/telerrors"
	"gorm.io/gorm"
)

// Record is the database model for one conversation's persisted state.
// The key columns form a composite primary key, so StorageKey equality maps
// onto row identity.
type Record struct {
	BotID                int64  `gorm:"primaryKey;autoIncrement:false"`
	ChatID               int64  `gorm:"primaryKey;autoIncrement:false"`
	UserID               int64  `gorm:"primaryKey;autoIncrement:false"`
	MessageThreadID      int64  `gorm:"primaryKey;autoIncrement:false"`
	BusinessConnectionID string `gorm:"primaryKey;size:128;default:''"`
	Destiny              string `gorm:"primaryKey;size:64"`
	States               string `gorm:"type:text"`
	Data                 string `gorm:"type:text"`
}

// TableName sets the table used by the Gorm storage.
func (Record) TableName() string {
	return "fsm_records"
}

// Gorm is a storage backed by a GORM-managed SQL database. Read-modify-write
// runs inside one transaction per operation, which serializes concurrent
// operations against the same row.
type Gorm struct {
	poolDB *gorm.DB
	codec  Codec
}

// NewGorm creates a Gorm storage and runs the migration for the Record
// model. A nil codec falls back to JSON.
func NewGorm(poolDB *gorm.DB, codec Codec) (*Gorm, telerrors.Error) {
	if err := poolDB.AutoMigrate(&Record{}); err != nil {
		return nil, telerrors.FromError(
			telerrors.KindStorage,
			err,
			"[GORM] failed to make auto migrate",
		)
	}

	if codec == nil {
		codec = JSONCodec{}
	}

	return &Gorm{poolDB: poolDB, codec: codec}, nil
}

func recordKey(key StorageKey) *Record {
	destiny := key.Destiny
	if destiny == "" {
		destiny = DefaultDestiny
	}

	return &Record{
		BotID:                key.BotID,
		ChatID:               key.ChatID,
		UserID:               key.UserID,
		MessageThreadID:      key.MessageThreadID,
		BusinessConnectionID: key.BusinessConnectionID,
		Destiny:              destiny,
	}
}

// keyConditions builds the WHERE clause for one key as a map, so every key
// column constrains the row even when its value is zero. A struct condition
// would drop zero-valued columns and alias distinct keys onto one row.
func keyConditions(key StorageKey) map[string]any {
	destiny := key.Destiny
	if destiny == "" {
		destiny = DefaultDestiny
	}

	return map[string]any{
		"bot_id":                 key.BotID,
		"chat_id":                key.ChatID,
		"user_id":                key.UserID,
		"message_thread_id":      key.MessageThreadID,
		"business_connection_id": key.BusinessConnectionID,
		"destiny":                destiny,
	}
}

// loadRecord fetches the row for key inside tx; found is false when the row
// does not exist yet.
func loadRecord(tx *gorm.DB, key StorageKey) (*Record, bool, error) {
	var rec Record

	err := tx.Where(keyConditions(key)).Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return recordKey(key), false, nil
		}

		return nil, false, err
	}

	return &rec, true, nil
}

func decodeStates(rec *Record) ([]string, error) {
	if rec.States == "" {
		return nil, nil
	}

	var states []string
	if err := json.Unmarshal([]byte(rec.States), &states); err != nil {
		return nil, err
	}

	return states, nil
}

func decodeData(rec *Record) (map[string][]byte, error) {
	if rec.Data == "" {
		return map[string][]byte{}, nil
	}

	var data map[string][]byte
	if err := json.Unmarshal([]byte(rec.Data), &data); err != nil {
		return nil, err
	}

	if data == nil {
		data = map[string][]byte{}
	}

	return data, nil
}

// saveRecord writes the mutated columns back, creating the row if needed.
func saveRecord(tx *gorm.DB, rec *Record, existed bool) error {
	if existed {
		return tx.Model(&Record{}).
			Where(keyConditions(StorageKey{
				BotID:                rec.BotID,
				ChatID:               rec.ChatID,
				UserID:               rec.UserID,
				MessageThreadID:      rec.MessageThreadID,
				BusinessConnectionID: rec.BusinessConnectionID,
				Destiny:              rec.Destiny,
			})).
			Updates(map[string]any{"states": rec.States, "data": rec.Data}).Error
	}

	return tx.Create(rec).Error
}

func (g *Gorm) mutate(
	ctx context.Context,
	key StorageKey,
	wrap string,
	change func(states []string, data map[string][]byte) ([]string, map[string][]byte, error),
) telerrors.Error {
	err := g.poolDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, existed, err := loadRecord(tx, key)
		if err != nil {
			return err
		}

		states, err := decodeStates(rec)
		if err != nil {
			return err
		}

		data, err := decodeData(rec)
		if err != nil {
			return err
		}

		states, data, err = change(states, data)
		if err != nil {
			return err
		}

		encodedStates, err := json.Marshal(states)
		if err != nil {
			return err
		}

		encodedData, err := json.Marshal(data)
		if err != nil {
			return err
		}

		rec.States = string(encodedStates)
		rec.Data = string(encodedData)

		return saveRecord(tx, rec, existed)
	})
	if err != nil {
		return telerrors.FromError(telerrors.KindStorage, err, wrap)
	}

	return nil
}

func (g *Gorm) SetState(ctx context.Context, key StorageKey, state string) telerrors.Error {
	return g.mutate(ctx, key, "[GORM] failed to push state",
		func(states []string, data map[string][]byte) ([]string, map[string][]byte, error) {
			return append(states, state), data, nil
		})
}

func (g *Gorm) SetPreviousState(ctx context.Context, key StorageKey) telerrors.Error {
	return g.mutate(ctx, key, "[GORM] failed to pop state",
		func(states []string, data map[string][]byte) ([]string, map[string][]byte, error) {
			if len(states) > 0 {
				states = states[:len(states)-1]
			}

			return states, data, nil
		})
}

func (g *Gorm) GetState(ctx context.Context, key StorageKey) (string, bool, telerrors.Error) {
	states, err := g.GetStates(ctx, key)
	if err != nil {
		return "", false, err.Wrap("[GORM] failed to get current state")
	}

	if len(states) == 0 {
		return "", false, nil
	}

	return states[len(states)-1], true, nil
}

func (g *Gorm) GetStates(ctx context.Context, key StorageKey) ([]string, telerrors.Error) {
	rec, found, err := loadRecord(g.poolDB.WithContext(ctx), key)
	if err != nil {
		return nil, telerrors.FromError(
			telerrors.KindStorage,
			err,
			"[GORM] failed to load record",
		)
	}

	if !found {
		return []string{}, nil
	}

	states, err := decodeStates(rec)
	if err != nil {
		return nil, telerrors.FromError(
			telerrors.KindStorage,
			err,
			"[GORM] failed to decode states stack",
		)
	}

	if states == nil {
		states = []string{}
	}

	return states, nil
}

func (g *Gorm) RemoveStates(ctx context.Context, key StorageKey) telerrors.Error {
	return g.mutate(ctx, key, "[GORM] failed to remove states stack",
		func(_ []string, data map[string][]byte) ([]string, map[string][]byte, error) {
			return nil, data, nil
		})
}

func (g *Gorm) SetData(ctx context.Context, key StorageKey, data map[string]any) telerrors.Error {
	encoded := make(map[string][]byte, len(data))

	for field, value := range data {
		raw, err := g.codec.Marshal(value)
		if err != nil {
			return telerrors.FromError(
				telerrors.KindStorage,
				err,
				fmt.Sprintf("[GORM] failed to serialize value for field `%s`", field),
			)
		}

		encoded[field] = raw
	}

	return g.mutate(ctx, key, "[GORM] failed to replace data map",
		func(states []string, _ map[string][]byte) ([]string, map[string][]byte, error) {
			return states, encoded, nil
		})
}

func (g *Gorm) SetValue(
	ctx context.Context,
	key StorageKey,
	field string,
	value any,
) telerrors.Error {
	raw, err := g.codec.Marshal(value)
	if err != nil {
		return telerrors.FromError(
			telerrors.KindStorage,
			err,
			fmt.Sprintf("[GORM] failed to serialize value for field `%s`", field),
		)
	}

	return g.mutate(ctx, key, "[GORM] failed to set value",
		func(states []string, data map[string][]byte) ([]string, map[string][]byte, error) {
			if data == nil {
				data = make(map[string][]byte, 1)
			}

			data[field] = raw

			return states, data, nil
		})
}

func (g *Gorm) GetValue(
	ctx context.Context,
	key StorageKey,
	field string,
	dest any,
) (bool, telerrors.Error) {
	data, err := g.GetData(ctx, key)
	if err != nil {
		return false, err.Wrap("[GORM] failed to get value")
	}

	raw, ok := data[field]
	if !ok {
		return false, nil
	}

	if err := g.codec.Unmarshal(raw, dest); err != nil {
		return false, telerrors.FromError(
			telerrors.KindStorage,
			err,
			fmt.Sprintf("[GORM] failed to deserialize value for field `%s`", field),
		)
	}

	return true, nil
}

func (g *Gorm) GetData(ctx context.Context, key StorageKey) (map[string][]byte, telerrors.Error) {
	rec, found, err := loadRecord(g.poolDB.WithContext(ctx), key)
	if err != nil {
		return nil, telerrors.FromError(
			telerrors.KindStorage,
			err,
			"[GORM] failed to load record",
		)
	}

	if !found {
		return map[string][]byte{}, nil
	}

	data, err := decodeData(rec)
	if err != nil {
		return nil, telerrors.FromError(
			telerrors.KindStorage,
			err,
			"[GORM] failed to decode data map",
		)
	}

	return data, nil
}

func (g *Gorm) RemoveData(ctx context.Context, key StorageKey) telerrors.Error {
	return g.mutate(ctx, key, "[GORM] failed to remove data map",
		func(states []string, _ map[string][]byte) ([]string, map[string][]byte, error) {
			return states, nil, nil
		})
}

func (g *Gorm) Close() telerrors.Error {
	sqlDB, err := g.poolDB.DB()
	if err != nil {
		return telerrors.FromError(
			telerrors.KindStorage,
			err,
			"[GORM] failed to get underlying connection",
		)
	}

	if err := sqlDB.Close(); err != nil {
		return telerrors.FromError(
			telerrors.KindStorage,
			err,
			"[GORM] failed to close connection",
		)
	}

	return nil
}
