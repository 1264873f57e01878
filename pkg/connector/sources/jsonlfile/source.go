// Package jsonlfile implements a source connector that reads records from a
// JSON Lines file, plain or gzip-compressed. It is the reference source for
// the runner: small enough to read in one sitting, complete enough to
// exercise every pipeline contract.
package jsonlfile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/Javier162380/airbyte/pkg/airbyteerrors"
	"github.com/Javier162380/airbyte/pkg/connector/core"
	"github.com/Javier162380/airbyte/pkg/json"
	"github.com/Javier162380/airbyte/pkg/jsonl"
	"github.com/Javier162380/airbyte/pkg/logger"
	"github.com/Javier162380/airbyte/pkg/protocol"
)

const connectionSpecification = `{
	"type": "object",
	"required": ["path"],
	"properties": {
		"path": {
			"type": "string",
			"description": "Path to the JSON Lines file to read."
		},
		"stream": {
			"type": "string",
			"description": "Stream name for emitted records. Defaults to the file name."
		},
		"compression": {
			"type": "string",
			"enum": ["none", "gzip"],
			"description": "File compression. Files ending in .gz default to gzip."
		}
	}
}`

// Config is the connection configuration for the jsonlfile source.
type Config struct {
	Path        string `json:"path"`
	Stream      string `json:"stream,omitempty"`
	Compression string `json:"compression,omitempty"`
}

func (c *Config) streamName() string {
	if c.Stream != "" {
		return c.Stream
	}
	name := filepath.Base(c.Path)
	name = strings.TrimSuffix(name, ".gz")
	return strings.TrimSuffix(name, filepath.Ext(name))
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
		return nil, airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConfig, "invalid jsonlfile source config")
	}
	return &cfg, nil
}

// Source reads a JSON Lines file as a single stream of records.
type Source struct {
	logger *zap.Logger
}

// New creates a jsonlfile source.
func New() *Source {
	return &Source{logger: logger.Get().With(zap.String("connector", "source-jsonlfile"))}
}

func (s *Source) Spec(ctx context.Context) (*protocol.ConnectorSpecification, error) {
	return &protocol.ConnectorSpecification{
		DocumentationURL:        "https://github.com/Javier162380/airbyte",
		ConnectionSpecification: json.RawMessage(connectionSpecification),
		SupportsIncremental:     false,
	}, nil
}

func (s *Source) Check(ctx context.Context, raw json.RawMessage) (*protocol.ConnectionStatus, error) {
	cfg, err := parseConfig(raw)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.Path); err != nil {
		return &protocol.ConnectionStatus{
			Status:  protocol.StatusFailed,
			Message: fmt.Sprintf("cannot read %s: %v", cfg.Path, err),
		}, nil
	}
	return &protocol.ConnectionStatus{Status: protocol.StatusSucceeded}, nil
}

func (s *Source) Discover(ctx context.Context, raw json.RawMessage) (*protocol.Catalog, error) {
	cfg, err := parseConfig(raw)
	if err != nil {
		return nil, err
	}
	return &protocol.Catalog{
		Streams: []protocol.Stream{{
			Name:               cfg.streamName(),
			JSONSchema:         json.RawMessage(`{"type":"object"}`),
			SupportedSyncModes: []protocol.SyncMode{protocol.SyncModeFullRefresh},
		}},
	}, nil
}

func (s *Source) Read(ctx context.Context, raw json.RawMessage, catalog *protocol.ConfiguredCatalog, state json.RawMessage) (core.MessageIterator, error) {
	cfg, err := parseConfig(raw)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(cfg.Path)
	if err != nil {
		return nil, airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConnection, "failed to open source file").
			WithDetail("path", cfg.Path)
	}

	reader := io.Reader(file)
	var gz *gzip.Reader
	if cfg.gzipped() {
		if gz, err = gzip.NewReader(file); err != nil {
			_ = file.Close()
			return nil, airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConnection, "failed to open gzip stream").
				WithDetail("path", cfg.Path)
		}
		reader = gz
	}

	s.logger.Info("reading source file", zap.String("path", cfg.Path), zap.String("stream", cfg.streamName()))
	return &fileIterator{
		stream:  cfg.streamName(),
		scanner: jsonl.NewScanner(reader),
		state:   state,
		file:    file,
		gz:      gz,
	}, nil
}

// fileIterator yields one RECORD message per line, then re-emits the input
// state (if any) once the file is exhausted. The file handle is the
// underlying resource released by Close.
type fileIterator struct {
	stream       string
	scanner      *bufio.Scanner
	state        json.RawMessage
	stateEmitted bool

	file *os.File
	gz   *gzip.Reader

	current *protocol.Message
	err     error
	closed  bool
}

func (it *fileIterator) Next(ctx context.Context) bool {
	if it.err != nil || it.closed {
		return false
	}
	if err := ctx.Err(); err != nil {
		it.err = err
		return false
	}

	for it.scanner.Scan() {
		line := it.scanner.Bytes()
		if !json.Valid(line) {
			it.err = airbyteerrors.New(airbyteerrors.ErrorTypeData, "source file contains a non-JSON line").
				WithDetail("line", string(line))
			return false
		}
		data := make([]byte, len(line))
		copy(data, line)
		it.current = protocol.NewRecordMessage(&protocol.Record{
			Stream:    it.stream,
			Data:      data,
			EmittedAt: time.Now().UnixMilli(),
		})
		return true
	}
	if err := it.scanner.Err(); err != nil {
		it.err = airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConnection, "failed to read source file")
		return false
	}

	if it.state != nil && !it.stateEmitted {
		it.stateEmitted = true
		it.current = protocol.NewStateMessage(&protocol.State{Data: it.state})
		return true
	}
	return false
}

func (it *fileIterator) Message() *protocol.Message { return it.current }

func (it *fileIterator) Err() error { return it.err }

func (it *fileIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	if it.gz != nil {
		_ = it.gz.Close()
	}
	return it.file.Close()
}
