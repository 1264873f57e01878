package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Javier162380/airbyte/pkg/json"
)

func TestMessageRoundTrip(t *testing.T) {
	cases := map[string]*Message{
		"spec": NewSpecMessage(&ConnectorSpecification{
			DocumentationURL:        "https://example.com/docs",
			ConnectionSpecification: json.RawMessage(`{"type":"object","required":["host"]}`),
		}),
		"connection_status": NewConnectionStatusMessage(&ConnectionStatus{
			Status:  StatusFailed,
			Message: "connection refused",
		}),
		"catalog": NewCatalogMessage(&Catalog{
			Streams: []Stream{{
				Name:               "users",
				JSONSchema:         json.RawMessage(`{"type":"object"}`),
				SupportedSyncModes: []SyncMode{SyncModeFullRefresh, SyncModeIncremental},
			}},
		}),
		"record": NewRecordMessage(&Record{
			Stream:    "users",
			Data:      json.RawMessage(`{"id":1,"name":"ada"}`),
			EmittedAt: 1700000000000,
		}),
		"state": NewStateMessage(&State{Data: json.RawMessage(`{"cursor":"2024-01-01"}`)}),
		"log":   NewLogMessage(LogLevelWarn, "slow query"),
		"trace": {
			Type: MessageTypeTrace,
			Trace: &Trace{
				Type:      TraceTypeError,
				EmittedAt: 1700000000000,
				Error:     &TraceError{Message: "boom"},
			},
		},
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			line, err := json.Marshal(in)
			require.NoError(t, err)

			var out Message
			require.NoError(t, json.Unmarshal(line, &out))
			assert.Equal(t, in, &out)
		})
	}
}

func TestEnvelopeOmitsEmptyPayloads(t *testing.T) {
	line, err := json.Marshal(NewLogMessage(LogLevelInfo, "hello"))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(line, &decoded))
	assert.Equal(t, []string{}, keysExcept(decoded, "type", "log"))
}

func keysExcept(m map[string]interface{}, allowed ...string) []string {
	extra := []string{}
	for k := range m {
		ok := false
		for _, a := range allowed {
			if k == a {
				ok = true
				break
			}
		}
		if !ok {
			extra = append(extra, k)
		}
	}
	return extra
}
