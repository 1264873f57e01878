// Package jsonlfile implements a destination connector that appends records
// to a JSON Lines file, plain or gzip-compressed. STATE messages are echoed
// back to the collector after the records they follow are durably written,
// which is the contract the platform relies on for checkpointing.
package jsonlfile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/Javier162380/airbyte/pkg/airbyteerrors"
	"github.com/Javier162380/airbyte/pkg/connector/core"
	"github.com/Javier162380/airbyte/pkg/json"
	"github.com/Javier162380/airbyte/pkg/logger"
	"github.com/Javier162380/airbyte/pkg/protocol"
)

const connectionSpecification = `{
	"type": "object",
	"required": ["path"],
	"properties": {
		"path": {
			"type": "string",
			"description": "Path of the JSON Lines file to write."
		},
		"compression": {
			"type": "string",
			"enum": ["none", "gzip"],
			"description": "File compression. Files ending in .gz default to gzip."
		}
	}
}`

// Config is the connection configuration for the jsonlfile destination.
type Config struct {
	Path        string `json:"path"`
	Compression string `json:"compression,omitempty"`
}

func (c *Config) gzipped() bool {
	if c.Compression != "" {
		return c.Compression == "gzip"
	}
	return strings.HasSuffix(c.Path, ".gz")
}

func parseConfig(raw json.RawMessage) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConfig, "invalid jsonlfile destination config")
	}
	return &cfg, nil
}

// Destination writes records to a JSON Lines file.
type Destination struct {
	logger *zap.Logger
}

// New creates a jsonlfile destination.
func New() *Destination {
	return &Destination{logger: logger.Get().With(zap.String("connector", "destination-jsonlfile"))}
}

func (d *Destination) Spec(ctx context.Context) (*protocol.ConnectorSpecification, error) {
	return &protocol.ConnectorSpecification{
		DocumentationURL:        "https://github.com/Javier162380/airbyte",
		ConnectionSpecification: json.RawMessage(connectionSpecification),
		SupportedDestinationSyncModes: []protocol.DestinationSyncMode{
			protocol.DestinationSyncModeAppend,
			protocol.DestinationSyncModeOverwrite,
		},
	}, nil
}

func (d *Destination) Check(ctx context.Context, raw json.RawMessage) (*protocol.ConnectionStatus, error) {
	cfg, err := parseConfig(raw)
	if err != nil {
		return nil, err
	}
	// confirm writability without clobbering an existing file
	file, err := os.OpenFile(cfg.Path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return &protocol.ConnectionStatus{
			Status:  protocol.StatusFailed,
			Message: fmt.Sprintf("cannot write %s: %v", cfg.Path, err),
		}, nil
	}
	_ = file.Close()
	return &protocol.ConnectionStatus{Status: protocol.StatusSucceeded}, nil
}

func (d *Destination) NewConsumer(ctx context.Context, raw json.RawMessage, catalog *protocol.ConfiguredCatalog, collector core.MessageCollector) (core.MessageConsumer, error) {
	cfg, err := parseConfig(raw)
	if err != nil {
		return nil, err
	}
	return &fileConsumer{
		cfg:       cfg,
		collector: collector,
		logger:    d.logger,
	}, nil
}

// fileConsumer buffers writes and flushes before acknowledging state, so an
// echoed STATE message never precedes the records it checkpoints.
type fileConsumer struct {
	cfg       *Config
	collector core.MessageCollector
	logger    *zap.Logger

	file   *os.File
	gz     *gzip.Writer
	writer *bufio.Writer
	closed bool
}

func (c *fileConsumer) Start(ctx context.Context) error {
	file, err := os.OpenFile(c.cfg.Path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConnection, "failed to open destination file").
			WithDetail("path", c.cfg.Path)
	}
	c.file = file

	var sink io.Writer = file
	if c.cfg.gzipped() {
		c.gz = gzip.NewWriter(file)
		sink = c.gz
	}
	c.writer = bufio.NewWriter(sink)
	return nil
}

func (c *fileConsumer) Accept(ctx context.Context, msg *protocol.Message) error {
	switch msg.Type {
	case protocol.MessageTypeRecord:
		if err := json.MarshalToWriter(c.writer, msg.Record); err != nil {
			return airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeData, "failed to encode record")
		}
	case protocol.MessageTypeState:
		if err := c.flush(); err != nil {
			return err
		}
		c.collector(msg)
	default:
		// other message types are not persisted
		c.logger.Debug("ignoring message", zap.String("type", string(msg.Type)))
	}
	return nil
}

func (c *fileConsumer) flush() error {
	if err := c.writer.Flush(); err != nil {
		return airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConnection, "failed to flush destination file")
	}
	if c.gz != nil {
		if err := c.gz.Flush(); err != nil {
			return airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConnection, "failed to flush gzip stream")
		}
	}
	return nil
}

func (c *fileConsumer) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.file == nil {
		return nil
	}

	err := c.flush()
	if c.gz != nil {
		if cerr := c.gz.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := c.file.Close(); err == nil {
		err = cerr
	}
	return err
}
