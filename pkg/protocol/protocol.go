// Package protocol defines the wire-level message types exchanged between a
// connector process and the platform that runs it. Every message is one JSON
// object per line (JSON Lines); the Message envelope carries a type tag and
// exactly one populated payload field.
package protocol

import (
	"github.com/Javier162380/airbyte/pkg/json"
)

// MessageType discriminates the payload carried by a Message.
type MessageType string

const (
	MessageTypeSpec             MessageType = "SPEC"
	MessageTypeConnectionStatus MessageType = "CONNECTION_STATUS"
	MessageTypeCatalog          MessageType = "CATALOG"
	MessageTypeRecord           MessageType = "RECORD"
	MessageTypeState            MessageType = "STATE"
	MessageTypeLog              MessageType = "LOG"
	MessageTypeTrace            MessageType = "TRACE"
)

// Message is the envelope for all protocol traffic. Exactly one payload
// field is set, matching the Type tag.
type Message struct {
	Type             MessageType             `json:"type"`
	Spec             *ConnectorSpecification `json:"spec,omitempty"`
	ConnectionStatus *ConnectionStatus       `json:"connectionStatus,omitempty"`
	Catalog          *Catalog                `json:"catalog,omitempty"`
	Record           *Record                 `json:"record,omitempty"`
	State            *State                  `json:"state,omitempty"`
	Log              *Log                    `json:"log,omitempty"`
	Trace            *Trace                  `json:"trace,omitempty"`
}

// ConnectorSpecification declares the JSON schema a connection configuration
// must satisfy, plus documentation metadata.
type ConnectorSpecification struct {
	DocumentationURL              string                `json:"documentationUrl,omitempty"`
	ChangelogURL                  string                `json:"changelogUrl,omitempty"`
	ConnectionSpecification       json.RawMessage       `json:"connectionSpecification"`
	SupportsIncremental           bool                  `json:"supportsIncremental,omitempty"`
	SupportsNormalization         bool                  `json:"supportsNormalization,omitempty"`
	SupportedDestinationSyncModes []DestinationSyncMode `json:"supported_destination_sync_modes,omitempty"`
}

// Status is the outcome of a connection check.
type Status string

const (
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

// ConnectionStatus reports the result of a CHECK command.
type ConnectionStatus struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// SyncMode is how a source stream is read.
type SyncMode string

const (
	SyncModeFullRefresh SyncMode = "full_refresh"
	SyncModeIncremental SyncMode = "incremental"
)

// DestinationSyncMode is how a destination persists a stream.
type DestinationSyncMode string

const (
	DestinationSyncModeAppend      DestinationSyncMode = "append"
	DestinationSyncModeOverwrite   DestinationSyncMode = "overwrite"
	DestinationSyncModeAppendDedup DestinationSyncMode = "append_dedup"
)

// Stream describes one stream a source can produce.
type Stream struct {
	Name                string          `json:"name"`
	JSONSchema          json.RawMessage `json:"json_schema,omitempty"`
	SupportedSyncModes  []SyncMode      `json:"supported_sync_modes,omitempty"`
	SourceDefinedCursor bool            `json:"source_defined_cursor,omitempty"`
	DefaultCursorField  []string        `json:"default_cursor_field,omitempty"`
	Namespace           string          `json:"namespace,omitempty"`
}

// Catalog is the set of streams a source offers, produced by DISCOVER.
type Catalog struct {
	Streams []Stream `json:"streams"`
}

// ConfiguredStream is one stream with the sync settings chosen for a run.
type ConfiguredStream struct {
	Stream              Stream              `json:"stream"`
	SyncMode            SyncMode            `json:"sync_mode"`
	DestinationSyncMode DestinationSyncMode `json:"destination_sync_mode,omitempty"`
	CursorField         []string            `json:"cursor_field,omitempty"`
	PrimaryKey          [][]string          `json:"primary_key,omitempty"`
}

// ConfiguredCatalog is the ordered list of stream sync configurations for one
// run, read from the catalog file and passed opaquely to the connector.
type ConfiguredCatalog struct {
	Streams []ConfiguredStream `json:"streams"`
}

// Record is one unit of data read from a source stream.
type Record struct {
	Stream    string          `json:"stream"`
	Data      json.RawMessage `json:"data"`
	EmittedAt int64           `json:"emitted_at"`
	Namespace string          `json:"namespace,omitempty"`
}

// State is an opaque sync-state snapshot. The runner never inspects it; it
// is re-emitted by the connector, not managed here.
type State struct {
	Data json.RawMessage `json:"data"`
}

// LogLevel is the severity of a protocol log line.
type LogLevel string

const (
	LogLevelFatal LogLevel = "FATAL"
	LogLevelError LogLevel = "ERROR"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelTrace LogLevel = "TRACE"
)

// Log is a log line forwarded through the protocol stream.
type Log struct {
	Level   LogLevel `json:"level"`
	Message string   `json:"message"`
}

// TraceType discriminates trace payloads.
type TraceType string

const (
	TraceTypeError TraceType = "ERROR"
)

// TraceError describes a connector failure in a trace event.
type TraceError struct {
	Message         string `json:"message,omitempty"`
	InternalMessage string `json:"internal_message,omitempty"`
	StackTrace      string `json:"stack_trace,omitempty"`
}

// Trace is a diagnostic event emitted alongside the data stream.
type Trace struct {
	Type      TraceType   `json:"type"`
	EmittedAt float64     `json:"emitted_at"`
	Error     *TraceError `json:"error,omitempty"`
}

// NewSpecMessage wraps a connector specification in a message envelope.
func NewSpecMessage(spec *ConnectorSpecification) *Message {
	return &Message{Type: MessageTypeSpec, Spec: spec}
}

// NewConnectionStatusMessage wraps a connection status in a message envelope.
func NewConnectionStatusMessage(status *ConnectionStatus) *Message {
	return &Message{Type: MessageTypeConnectionStatus, ConnectionStatus: status}
}

// NewCatalogMessage wraps a catalog in a message envelope.
func NewCatalogMessage(catalog *Catalog) *Message {
	return &Message{Type: MessageTypeCatalog, Catalog: catalog}
}

// NewRecordMessage wraps a record in a message envelope.
func NewRecordMessage(record *Record) *Message {
	return &Message{Type: MessageTypeRecord, Record: record}
}

// NewStateMessage wraps a state snapshot in a message envelope.
func NewStateMessage(state *State) *Message {
	return &Message{Type: MessageTypeState, State: state}
}

// NewLogMessage wraps a log line in a message envelope.
func NewLogMessage(level LogLevel, message string) *Message {
	return &Message{Type: MessageTypeLog, Log: &Log{Level: level, Message: message}}
}
