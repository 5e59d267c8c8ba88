package codec

import "github.com/sugawarayuuta/sonnet"

// JSON is a Codec backed by sonnet, a drop-in encoding/json replacement.
// The zero value is ready to use. Handy when the store is inspected by hand.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return sonnet.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := sonnet.Unmarshal(b, &v)
	return v, err
}
