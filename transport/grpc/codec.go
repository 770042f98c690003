package grpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// jsonCodec replaces the standard protobuf wire codec under the name
// "proto", which is what a grpc.ClientConn and grpc.Server fall back to
// selecting when no content-subtype is negotiated. This lets the service
// ride ordinary gRPC framing (HTTP/2, length-prefixing) without a
// protoc-gen-go toolchain in the build: messages.go's plain structs are
// JSON-encoded instead of varint/tag encoded.
//
// This is a deliberate departure from generated protobuf; see DESIGN.md
// for the tradeoff.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "proto" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("snark transport: marshal %T: %w", v, err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("snark transport: unmarshal %T: %w", v, err)
	}
	return nil
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
