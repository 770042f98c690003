package grpc

import (
	"testing"

	"github.com/shoenig/test/must"
)

func TestJSONCodec_RoundTripsMessages(t *testing.T) {
	codec := jsonCodec{}
	must.Eq(t, "proto", codec.Name())

	in := &SnarkTaskRequestParams{
		TaskID:       "A",
		VanillaProof: []byte{1, 2, 3},
		PubIn:        []byte{4},
		PostConfig:   []byte(`{"sector_size":32}`),
		ReplicasLen:  7,
	}

	data, err := codec.Marshal(in)
	must.NoError(t, err)

	var out SnarkTaskRequestParams
	must.NoError(t, codec.Unmarshal(data, &out))
	must.Eq(t, *in, out)
}

func TestJSONCodec_UnmarshalRejectsGarbage(t *testing.T) {
	codec := jsonCodec{}
	var out BaseResponse
	err := codec.Unmarshal([]byte("not json"), &out)
	must.Error(t, err)
}
