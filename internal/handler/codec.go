package handler

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// JSONCodec carries the service messages as JSON so the plain Go request and
// response types can travel over gRPC without generated code.
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (JSONCodec) Name() string { return "json" }

func init() {
	encoding.RegisterCodec(JSONCodec{})
}
