package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec marshals plain Go structs with encoding/json. The backend
// speaks bare JSON without protobuf schemas, so Connect's built-in codecs
// (which require proto.Message) do not apply.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Codec returns the option that makes Connect clients and handlers use
// plain JSON bodies.
func Codec() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
