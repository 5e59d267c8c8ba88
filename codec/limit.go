package codec

import (
	"errors"
	"fmt"
)

// ErrPayloadTooLarge is returned by LimitCodec.Decode for oversized input.
var ErrPayloadTooLarge = errors.New("codec: payload too large")

// LimitCodec refuses to decode payloads longer than MaxDecode bytes; MaxDecode <= 0
// disables the check. Encode goes straight to Inner.
//
// A count never needs more than 20 bytes in any of this package's formats, so anything
// larger read back from a shared store is not ours.
type LimitCodec[V any] struct {
	Inner     Codec[V]
	MaxDecode int
}

// Limit wraps inner with a decode size bound.
func Limit[V any](inner Codec[V], maxDecode int) LimitCodec[V] {
	return LimitCodec[V]{Inner: inner, MaxDecode: maxDecode}
}

func (c LimitCodec[V]) Encode(v V) ([]byte, error) { return c.Inner.Encode(v) }

func (c LimitCodec[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
