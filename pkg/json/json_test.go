package json

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID   string   `json:"id"`
	N    int      `json:"n"`
	Tags []string `json:"tags,omitempty"`
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	in := sample{ID: "r-1", N: 42, Tags: []string{"a", "b"}}

	data, err := Marshal(in)
	require.NoError(t, err)

	var out sample
	require.NoError(t, Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestMarshalToWriterDisablesHTMLEscaping(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarshalToWriter(&buf, map[string]string{"url": "a&b<c>"}))
	assert.Contains(t, buf.String(), "a&b<c>")
}

func TestBufferPoolReset(t *testing.T) {
	buf := GetBuffer()
	buf.WriteString("leftover")
	PutBuffer(buf)

	again := GetBuffer()
	assert.Zero(t, again.Len())
	PutBuffer(again)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid([]byte(`{"a":1}`)))
	assert.False(t, Valid([]byte(`{"a":`)))
}
