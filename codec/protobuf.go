package codec

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ProtoUint64 encodes a count as a google.protobuf.UInt64Value message, for stores
// shared with non-Go readers that already speak protobuf.
type ProtoUint64 struct{}

var _ Codec[uint64] = ProtoUint64{}

func (ProtoUint64) Encode(n uint64) ([]byte, error) {
	return proto.Marshal(wrapperspb.UInt64(n))
}

func (ProtoUint64) Decode(b []byte) (uint64, error) {
	var m wrapperspb.UInt64Value
	if err := proto.Unmarshal(b, &m); err != nil {
		return 0, err
	}
	return m.GetValue(), nil
}
