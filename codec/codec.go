// Package codec turns cached population counts into bytes for byte-oriented providers.
package codec

import "fmt"

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Names lists the count codecs ByName understands, default first.
func Names() []string {
	return []string{"binary", "json", "cbor", "msgpack", "protobuf"}
}

// ByName resolves a count codec by its configuration name. "" selects the default.
func ByName(name string) (Codec[uint64], error) {
	switch name {
	case "", "binary":
		return Uint64{}, nil
	case "json":
		return JSON[uint64]{}, nil
	case "cbor":
		return NewCBOR[uint64](true)
	case "msgpack":
		return Msgpack[uint64]{}, nil
	case "protobuf":
		return ProtoUint64{}, nil
	}
	return nil, fmt.Errorf("codec: unknown codec %q", name)
}
