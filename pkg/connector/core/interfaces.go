// Package core defines the connector surface the runner drives. A connector
// is either a Source or a Destination; both share the Integration operations
// (spec and check) and add their role-specific ones.
package core

import (
	"context"

	"github.com/Javier162380/airbyte/pkg/json"
	"github.com/Javier162380/airbyte/pkg/protocol"
)

// ConnectorType represents the role of a connector.
type ConnectorType string

const (
	ConnectorTypeSource      ConnectorType = "source"
	ConnectorTypeDestination ConnectorType = "destination"
)

// MessageCollector receives protocol messages bound for the output stream.
// All emission goes through a collector so the sink can be swapped in tests.
type MessageCollector func(*protocol.Message)

// Integration covers the operations common to both connector roles.
type Integration interface {
	// Spec returns the connector's specification, including the JSON schema
	// a connection configuration must satisfy. No I/O beyond the connector's
	// own metadata.
	Spec(ctx context.Context) (*protocol.ConnectorSpecification, error)

	// Check verifies the connector can reach its backing system with the
	// given configuration. Connectivity problems are reported in the
	// returned status, not as an error; an error means the check itself
	// could not run.
	Check(ctx context.Context, config json.RawMessage) (*protocol.ConnectionStatus, error)
}

// Source is a connector that produces data.
type Source interface {
	Integration

	// Discover enumerates the streams available with this configuration.
	Discover(ctx context.Context, config json.RawMessage) (*protocol.Catalog, error)

	// Read opens a message iterator over the configured catalog. A nil
	// state means the sync starts from scratch. The caller owns the
	// iterator and must Close it exactly once.
	Read(ctx context.Context, config json.RawMessage, catalog *protocol.ConfiguredCatalog, state json.RawMessage) (MessageIterator, error)
}

// Destination is a connector that consumes data.
type Destination interface {
	Integration

	// NewConsumer opens a message consumer for one write run. The collector
	// lets the consumer emit messages (typically STATE) back to the output
	// stream. The caller owns the consumer and must Close it exactly once.
	NewConsumer(ctx context.Context, config json.RawMessage, catalog *protocol.ConfiguredCatalog, collector MessageCollector) (MessageConsumer, error)
}

// MessageIterator is a finite, non-restartable sequence of protocol
// messages, in the style of database/sql.Rows:
//
//	for it.Next(ctx) {
//	    use(it.Message())
//	}
//	if err := it.Err(); err != nil { ... }
//
// The iterator holds an underlying resource (connection, cursor, file
// handle) released by Close.
type MessageIterator interface {
	// Next advances to the next message, returning false on exhaustion or
	// error.
	Next(ctx context.Context) bool

	// Message returns the current message. Valid only after a true Next.
	Message() *protocol.Message

	// Err returns the error that stopped iteration, if any.
	Err() error

	// Close releases the underlying resource. Idempotent.
	Close() error
}

// MessageConsumer accepts the messages of one write run in order:
// Start once, Accept per message, Close exactly once however the run ends.
type MessageConsumer interface {
	Start(ctx context.Context) error
	Accept(ctx context.Context, msg *protocol.Message) error
	Close() error
}
