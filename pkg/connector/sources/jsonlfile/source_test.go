package jsonlfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Javier162380/airbyte/pkg/json"
	"github.com/Javier162380/airbyte/pkg/protocol"
)

func writeLines(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func configFor(t *testing.T, path string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(map[string]string{"path": path})
	require.NoError(t, err)
	return raw
}

func drain(t *testing.T, src *Source, config json.RawMessage, state json.RawMessage) []*protocol.Message {
	t.Helper()
	it, err := src.Read(context.Background(), config, &protocol.ConfiguredCatalog{}, state)
	require.NoError(t, err)
	defer func() { require.NoError(t, it.Close()) }()

	var messages []*protocol.Message
	for it.Next(context.Background()) {
		messages = append(messages, it.Message())
	}
	require.NoError(t, it.Err())
	return messages
}

func TestReadEmitsRecordsInFileOrder(t *testing.T) {
	path := writeLines(t, "users.jsonl", "{\"id\":1}\n{\"id\":2}\n{\"id\":3}\n")

	messages := drain(t, New(), configFor(t, path), nil)

	require.Len(t, messages, 3)
	for i, msg := range messages {
		assert.Equal(t, protocol.MessageTypeRecord, msg.Type)
		assert.Equal(t, "users", msg.Record.Stream)
		assert.JSONEq(t, `{"id":`+string(rune('1'+i))+`}`, string(msg.Record.Data))
	}
}

func TestReadReemitsStateAfterRecords(t *testing.T) {
	path := writeLines(t, "users.jsonl", "{\"id\":1}\n")

	messages := drain(t, New(), configFor(t, path), json.RawMessage(`{"cursor":"abc"}`))

	require.Len(t, messages, 2)
	assert.Equal(t, protocol.MessageTypeRecord, messages[0].Type)
	assert.Equal(t, protocol.MessageTypeState, messages[1].Type)
	assert.JSONEq(t, `{"cursor":"abc"}`, string(messages[1].State.Data))
}

func TestReadGzipFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl.gz")
	file, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(file)
	_, err = gz.Write([]byte("{\"n\":1}\n{\"n\":2}\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, file.Close())

	messages := drain(t, New(), configFor(t, path), nil)

	require.Len(t, messages, 2)
	assert.Equal(t, "events", messages[0].Record.Stream)
}

func TestReadNonJSONLineFailsIteration(t *testing.T) {
	path := writeLines(t, "users.jsonl", "{\"id\":1}\nnot json\n")

	src := New()
	it, err := src.Read(context.Background(), configFor(t, path), &protocol.ConfiguredCatalog{}, nil)
	require.NoError(t, err)
	defer it.Close()

	assert.True(t, it.Next(context.Background()))
	assert.False(t, it.Next(context.Background()))
	assert.Error(t, it.Err())
}

func TestIteratorCloseIdempotent(t *testing.T) {
	path := writeLines(t, "users.jsonl", "{\"id\":1}\n")

	it, err := New().Read(context.Background(), configFor(t, path), &protocol.ConfiguredCatalog{}, nil)
	require.NoError(t, err)

	require.NoError(t, it.Close())
	require.NoError(t, it.Close())
}

func TestCheckMissingFile(t *testing.T) {
	status, err := New().Check(context.Background(), configFor(t, filepath.Join(t.TempDir(), "absent.jsonl")))
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusFailed, status.Status)
	assert.NotEmpty(t, status.Message)
}

func TestDiscoverDefaultsStreamToFileName(t *testing.T) {
	path := writeLines(t, "orders.jsonl", "")

	catalog, err := New().Discover(context.Background(), configFor(t, path))
	require.NoError(t, err)
	require.Len(t, catalog.Streams, 1)
	assert.Equal(t, "orders", catalog.Streams[0].Name)
}

func TestSpecDeclaresSchema(t *testing.T) {
	spec, err := New().Spec(context.Background())
	require.NoError(t, err)
	assert.True(t, json.Valid(spec.ConnectionSpecification))
}
