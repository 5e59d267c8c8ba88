package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version   byte = 1
	kindEntry byte = 1

	hdrLen = 4 + 1 + 1 + 8 + 4 + 4
)

var (
	ErrCorrupt = errors.New("tokencount: corrupt entry")
	magic4     = [...]byte{'T', 'K', 'C', 'T'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry: magic(4) | ver(1) | kind(1=entry) | token(u64 be) | steps(u32 be) | vlen(u32 be) | payload(vlen)
//
// The full key travels with the value so a reader can tell its own entry apart from
// anything else that landed under the same storage key.
func EncodeEntry(token uint64, steps uint32, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(hdrLen + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindEntry)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], token)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], steps)
	buf.Write(u4[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

func DecodeEntry(b []byte) (token uint64, steps uint32, payload []byte, err error) {
	if len(b) < hdrLen || !hasMagic(b) || b[4] != version || b[5] != kindEntry {
		return 0, 0, nil, ErrCorrupt
	}

	off := 6

	token = binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	steps = binary.BigEndian.Uint32(b[off : off+4])
	off += 4

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off { // exact length; trailing bytes are corruption
		return 0, 0, nil, ErrCorrupt
	}

	return token, steps, b[off : off+vlen], nil
}
