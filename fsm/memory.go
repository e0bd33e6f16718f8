package fsm

import (
	"context"
	"fmt"
	"sync"

	"github.com/Nnenty/telers/telerrors"
)

type memoryRecord struct {
	states []string
	data   map[string][]byte
}

// Memory is a thread-safe in-memory storage. It doesn't persist data between
// restarts, so it is mostly useful for tests and single-process bots; use
// Redis or Gorm for production.
type Memory struct {
	mutex   sync.Mutex
	records map[StorageKey]*memoryRecord
	codec   Codec
}

// NewMemory creates an empty in-memory storage. A nil codec falls back to
// JSON.
func NewMemory(codec Codec) *Memory {
	if codec == nil {
		codec = JSONCodec{}
	}

	return &Memory{
		records: make(map[StorageKey]*memoryRecord),
		codec:   codec,
	}
}

// record returns the record for key, creating it if absent.
// Callers must hold the mutex.
func (m *Memory) record(key StorageKey) *memoryRecord {
	rec, ok := m.records[key]
	if !ok {
		rec = &memoryRecord{}
		m.records[key] = rec
	}

	return rec
}

func (m *Memory) SetState(_ context.Context, key StorageKey, state string) telerrors.Error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	rec := m.record(key)
	rec.states = append(rec.states, state)

	return nil
}

func (m *Memory) SetPreviousState(_ context.Context, key StorageKey) telerrors.Error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	rec, ok := m.records[key]
	if !ok || len(rec.states) == 0 {
		return nil
	}

	rec.states = rec.states[:len(rec.states)-1]

	return nil
}

func (m *Memory) GetState(_ context.Context, key StorageKey) (string, bool, telerrors.Error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	rec, ok := m.records[key]
	if !ok || len(rec.states) == 0 {
		return "", false, nil
	}

	return rec.states[len(rec.states)-1], true, nil
}

func (m *Memory) GetStates(_ context.Context, key StorageKey) ([]string, telerrors.Error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	rec, ok := m.records[key]
	if !ok {
		return []string{}, nil
	}

	states := make([]string, len(rec.states))
	copy(states, rec.states)

	return states, nil
}

func (m *Memory) RemoveStates(_ context.Context, key StorageKey) telerrors.Error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if rec, ok := m.records[key]; ok {
		rec.states = nil
	}

	return nil
}

func (m *Memory) SetData(
	_ context.Context,
	key StorageKey,
	data map[string]any,
) telerrors.Error {
	newData := make(map[string][]byte, len(data))

	for field, value := range data {
		encoded, err := m.codec.Marshal(value)
		if err != nil {
			return telerrors.FromError(
				telerrors.KindStorage,
				err,
				fmt.Sprintf("[MEMORY] failed to serialize value for field `%s`", field),
			)
		}

		newData[field] = encoded
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.record(key).data = newData

	return nil
}

func (m *Memory) SetValue(
	_ context.Context,
	key StorageKey,
	field string,
	value any,
) telerrors.Error {
	encoded, err := m.codec.Marshal(value)
	if err != nil {
		return telerrors.FromError(
			telerrors.KindStorage,
			err,
			fmt.Sprintf("[MEMORY] failed to serialize value for field `%s`", field),
		)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	rec := m.record(key)
	if rec.data == nil {
		rec.data = make(map[string][]byte, 1)
	}

	rec.data[field] = encoded

	return nil
}

func (m *Memory) GetValue(
	_ context.Context,
	key StorageKey,
	field string,
	dest any,
) (bool, telerrors.Error) {
	m.mutex.Lock()

	rec, ok := m.records[key]
	if !ok {
		m.mutex.Unlock()

		return false, nil
	}

	encoded, ok := rec.data[field]

	m.mutex.Unlock()

	if !ok {
		return false, nil
	}

	if err := m.codec.Unmarshal(encoded, dest); err != nil {
		return false, telerrors.FromError(
			telerrors.KindStorage,
			err,
			fmt.Sprintf("[MEMORY] failed to deserialize value for field `%s`", field),
		)
	}

	return true, nil
}

func (m *Memory) GetData(_ context.Context, key StorageKey) (map[string][]byte, telerrors.Error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	rec, ok := m.records[key]
	if !ok {
		return map[string][]byte{}, nil
	}

	snapshot := make(map[string][]byte, len(rec.data))

	for field, encoded := range rec.data {
		value := make([]byte, len(encoded))
		copy(value, encoded)
		snapshot[field] = value
	}

	return snapshot, nil
}

func (m *Memory) RemoveData(_ context.Context, key StorageKey) telerrors.Error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if rec, ok := m.records[key]; ok {
		rec.data = nil
	}

	return nil
}

func (m *Memory) Close() telerrors.Error {
	return nil
}
