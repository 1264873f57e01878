// Package json is the single JSON codec for the repository, backed by
// goccy/go-json. All protocol serialization goes through this package so the
// underlying implementation can be swapped in one place.
package json

import (
	"bytes"
	"io"
	"sync"

	gojson "github.com/goccy/go-json"
)

// RawMessage is a raw encoded JSON value, compatible with encoding/json.
type RawMessage = gojson.RawMessage

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// GetBuffer gets a pooled bytes.Buffer.
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the pool. Very large buffers are dropped so
// one oversized payload does not pin memory for the life of the process.
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 1024*1024 {
		return
	}
	bufferPool.Put(buf)
}

// Marshal is a drop-in replacement for encoding/json.Marshal.
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal is a drop-in replacement for encoding/json.Unmarshal.
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// MarshalToWriter encodes v directly to w. HTML escaping is disabled; the
// output is a wire protocol, not a web page.
func MarshalToWriter(w io.Writer, v interface{}) error {
	enc := gojson.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// Valid reports whether data is well-formed JSON.
func Valid(data []byte) bool {
	return gojson.Valid(data)
}
