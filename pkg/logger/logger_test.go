package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextStampsConnectorAndCommand(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := globalLogger
	globalLogger = zap.New(core)
	defer func() { globalLogger = prev }()

	ctx := context.WithValue(context.Background(), ConnectorKey, "jsonlfile")
	ctx = context.WithValue(ctx, CommandKey, "read")

	WithContext(ctx).Info("starting")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "jsonlfile", fields["connector"])
	assert.Equal(t, "read", fields["command"])
}

func TestWithContextWithoutValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := globalLogger
	globalLogger = zap.New(core)
	defer func() { globalLogger = prev }()

	WithContext(context.Background()).Info("starting")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].ContextMap())
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	_, err := newLogger(Config{Level: "chatty", Encoding: "json"})
	assert.Error(t, err)
}

func TestNewLoggerBuildsWithDefaultOutputs(t *testing.T) {
	logger, err := newLogger(Config{Level: "debug", Encoding: "json"})
	require.NoError(t, err)
	require.NotNil(t, logger)
}
