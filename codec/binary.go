package codec

import (
	"encoding/binary"
	"fmt"
)

// Uint64 stores a count as exactly 8 big-endian bytes. It is the default codec:
// fixed size, no allocation beyond the slice, nothing to configure.
type Uint64 struct{}

var _ Codec[uint64] = Uint64{}

func (Uint64) Encode(n uint64) ([]byte, error) {
	return binary.BigEndian.AppendUint64(make([]byte, 0, 8), n), nil
}

func (Uint64) Decode(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("uint64 codec: want 8 bytes, got %d", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}
