package fsm

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec serializes the values kept in a record's data map. All backends
// accept a codec option; JSON is the default.
type Codec interface {
	Name() string
	Marshal(value any) ([]byte, error)
	Unmarshal(data []byte, dest any) error
}

// JSONCodec serializes values as JSON. Structures whose optional fields are
// entirely absent round-trip unchanged.
type JSONCodec struct{}

func (JSONCodec) Name() string {
	return "json"
}

func (JSONCodec) Marshal(value any) ([]byte, error) {
	return json.Marshal(value)
}

func (JSONCodec) Unmarshal(data []byte, dest any) error {
	return json.Unmarshal(data, dest)
}

// MsgpackCodec serializes values as msgpack, a compact binary alternative
// for large data maps.
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string {
	return "msgpack"
}

func (MsgpackCodec) Marshal(value any) ([]byte, error) {
	return msgpack.Marshal(value)
}

func (MsgpackCodec) Unmarshal(data []byte, dest any) error {
	return msgpack.Unmarshal(data, dest)
}
