// Package runner adapts one command-line invocation of a connector into
// calls against a Source or a Destination, speaking the line-delimited JSON
// protocol on standard output (and standard input for WRITE).
//
// The runner is the boundary between the operating-system process and the
// in-process connector: it loads and validates configuration, dispatches
// exactly one command per run, and owns the lifecycle of the message
// iterator or consumer it acquires.
package runner

import (
	"context"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Javier162380/airbyte/pkg/airbyteerrors"
	"github.com/Javier162380/airbyte/pkg/connector/core"
	"github.com/Javier162380/airbyte/pkg/json"
	"github.com/Javier162380/airbyte/pkg/logger"
	"github.com/Javier162380/airbyte/pkg/metrics"
	"github.com/Javier162380/airbyte/pkg/observability"
	"github.com/Javier162380/airbyte/pkg/protocol"
)

// Command is one of the five connector operations.
type Command string

const (
	CommandSpec     Command = "spec"
	CommandCheck    Command = "check"
	CommandDiscover Command = "discover"
	CommandRead     Command = "read"
	CommandWrite    Command = "write"
)

// IntegrationConfig is the already-parsed result of one CLI invocation:
// the command to run plus the file paths it needs. One instance per process
// run; the runner never re-parses argv.
type IntegrationConfig struct {
	Command     Command
	ConfigPath  string
	CatalogPath string
	StatePath   string // optional, READ only
}

// Role is the connector a runner drives: exactly one of Source or
// Destination, fixed for the lifetime of the runner. Use SourceRole or
// DestinationRole; the zero value is invalid.
type Role struct {
	source      core.Source
	destination core.Destination
}

// SourceRole wraps a source connector.
func SourceRole(s core.Source) Role {
	return Role{source: s}
}

// DestinationRole wraps a destination connector.
func DestinationRole(d core.Destination) Role {
	return Role{destination: d}
}

func (r Role) integration() core.Integration {
	if r.source != nil {
		return r.source
	}
	return r.destination
}

// Runner executes one connector command per run. Construct with New; the
// collaborators (validator, sink, telemetry) are per-instance, never
// process-wide singletons.
type Runner struct {
	role      Role
	validator SchemaValidator
	telemetry *observability.Telemetry
	metrics   *metrics.Collector
	logger    *zap.Logger
	input     io.Reader
	output    io.Writer
	collector core.MessageCollector
}

// Option customizes a Runner.
type Option func(*Runner)

// WithValidator replaces the schema validator.
func WithValidator(v SchemaValidator) Option {
	return func(r *Runner) { r.validator = v }
}

// WithTelemetry supplies a telemetry instance. Without it the runner builds
// one from the process environment.
func WithTelemetry(t *observability.Telemetry) Option {
	return func(r *Runner) { r.telemetry = t }
}

// WithInput replaces standard input for the WRITE pipeline.
func WithInput(in io.Reader) Option {
	return func(r *Runner) { r.input = in }
}

// WithOutput replaces standard output as the destination of the default
// message sink.
func WithOutput(out io.Writer) Option {
	return func(r *Runner) { r.output = out }
}

// WithCollector replaces the output sink entirely. Business logic never
// writes to stdout directly, so swapping the collector captures every
// emitted message.
func WithCollector(c core.MessageCollector) Option {
	return func(r *Runner) { r.collector = c }
}

// WithMetricsRegistry registers the runner's counters against reg instead of
// the default Prometheus registry.
func WithMetricsRegistry(reg prometheus.Registerer) Option {
	return func(r *Runner) { r.metrics = metrics.NewCollector(reg) }
}

// New constructs a runner for the given role. A zero-value role fails here,
// before any command is dispatched.
func New(role Role, opts ...Option) (*Runner, error) {
	if role.source == nil && role.destination == nil {
		return nil, airbyteerrors.New(airbyteerrors.ErrorTypeInternal, "runner requires a source or a destination")
	}
	if role.source != nil && role.destination != nil {
		return nil, airbyteerrors.New(airbyteerrors.ErrorTypeInternal, "runner accepts a source or a destination, not both")
	}

	r := &Runner{
		role:   role,
		input:  os.Stdin,
		output: os.Stdout,
		logger: logger.Get().With(zap.String("component", "runner")),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.validator == nil {
		r.validator = NewSchemaValidator()
	}
	if r.metrics == nil {
		r.metrics = metrics.Default()
	}
	if r.telemetry == nil {
		telemetry, err := observability.New(observability.ConfigFromEnv())
		if err != nil {
			return nil, err
		}
		r.telemetry = telemetry
	}
	if r.collector == nil {
		r.collector = r.writeMessage
	}
	return r, nil
}

// writeMessage is the default output sink. The message is encoded into a
// pooled buffer and flushed with a single Write, so the line can never reach
// the writer partially.
func (r *Runner) writeMessage(msg *protocol.Message) {
	buf := json.GetBuffer()
	defer json.PutBuffer(buf)

	if err := json.MarshalToWriter(buf, msg); err != nil {
		r.logger.Error("failed to encode protocol message", zap.Error(err))
		return
	}
	if _, err := r.output.Write(buf.Bytes()); err != nil {
		r.logger.Error("failed to write protocol message", zap.Error(err))
	}
}

// emit routes a message through the sink and records it.
func (r *Runner) emit(msg *protocol.Message) {
	r.collector(msg)
	r.metrics.MessageEmitted(string(msg.Type))
}

// Run executes the parsed command. Telemetry is finalized explicitly on both
// the success and the failure path; the finalize is idempotent, so an extra
// best-effort attempt by a caller cannot corrupt state. Any returned error
// must surface as non-zero process termination.
func (r *Runner) Run(ctx context.Context, cfg IntegrationConfig) error {
	ctx = context.WithValue(ctx, logger.CommandKey, string(cfg.Command))
	ctx, span := r.telemetry.StartSpan(ctx, "runner.run",
		trace.WithAttributes(attribute.String("command", string(cfg.Command))))

	log := logger.WithContext(ctx).With(zap.String("component", "runner"))
	log.Info("running integration command")

	if err := r.execute(ctx, cfg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		_ = r.telemetry.Shutdown(context.WithoutCancel(ctx))
		return err
	}

	span.SetStatus(codes.Ok, "")
	span.End()
	log.Info("completed integration command")
	return r.telemetry.Shutdown(ctx)
}

// execute is the command dispatcher. Each command is independent; there is
// no cross-command state within a run.
func (r *Runner) execute(ctx context.Context, cfg IntegrationConfig) error {
	integration := r.role.integration()

	switch cfg.Command {
	case CommandSpec:
		spec, err := integration.Spec(ctx)
		if err != nil {
			return airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConnection, "spec failed")
		}
		r.emit(protocol.NewSpecMessage(spec))
		return nil

	case CommandCheck:
		config, err := LoadJSON(cfg.ConfigPath)
		if err != nil {
			return err
		}
		spec, err := integration.Spec(ctx)
		if err != nil {
			return airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConnection, "spec failed")
		}
		// A validation failure is reported as a failed status instead of
		// aborting; the connector's own check still runs afterwards.
		if verr := r.validateConfig(spec.ConnectionSpecification, config, "CHECK"); verr != nil {
			r.emit(protocol.NewConnectionStatusMessage(&protocol.ConnectionStatus{
				Status:  protocol.StatusFailed,
				Message: verr.Error(),
			}))
		}
		status, err := integration.Check(ctx, config)
		if err != nil {
			return airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConnection, "check failed")
		}
		r.emit(protocol.NewConnectionStatusMessage(status))
		return nil

	case CommandDiscover:
		source, err := r.requireSource(cfg.Command)
		if err != nil {
			return err
		}
		config, err := r.loadValidatedConfig(ctx, cfg.ConfigPath, "DISCOVER")
		if err != nil {
			return err
		}
		catalog, err := source.Discover(ctx, config)
		if err != nil {
			return airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConnection, "discover failed")
		}
		r.emit(protocol.NewCatalogMessage(catalog))
		return nil

	case CommandRead:
		source, err := r.requireSource(cfg.Command)
		if err != nil {
			return err
		}
		config, err := r.loadValidatedConfig(ctx, cfg.ConfigPath, "READ")
		if err != nil {
			return err
		}
		var catalog protocol.ConfiguredCatalog
		if err := LoadTyped(cfg.CatalogPath, &catalog); err != nil {
			return err
		}
		var state json.RawMessage
		if cfg.StatePath != "" {
			if state, err = LoadJSON(cfg.StatePath); err != nil {
				return err
			}
		}
		iterator, err := source.Read(ctx, config, &catalog, state)
		if err != nil {
			return airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConnection, "read failed")
		}
		return r.consumeReadStream(ctx, iterator)

	case CommandWrite:
		destination, err := r.requireDestination(cfg.Command)
		if err != nil {
			return err
		}
		config, err := r.loadValidatedConfig(ctx, cfg.ConfigPath, "WRITE")
		if err != nil {
			return err
		}
		var catalog protocol.ConfiguredCatalog
		if err := LoadTyped(cfg.CatalogPath, &catalog); err != nil {
			return err
		}
		consumer, err := destination.NewConsumer(ctx, config, &catalog, r.emit)
		if err != nil {
			return airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConnection, "failed to open consumer")
		}
		return r.consumeWriteStream(ctx, consumer)

	default:
		// unreachable with a well-formed parser
		return airbyteerrors.Newf(airbyteerrors.ErrorTypeInternal, "unexpected command: %s", cfg.Command)
	}
}

// loadValidatedConfig loads the config file and validates it against the
// connector's declared schema. Validation precedes any connector-specific
// operation; a failure here aborts before the connector is invoked.
func (r *Runner) loadValidatedConfig(ctx context.Context, path, operation string) (json.RawMessage, error) {
	config, err := LoadJSON(path)
	if err != nil {
		return nil, err
	}
	spec, err := r.role.integration().Spec(ctx)
	if err != nil {
		return nil, airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConnection, "spec failed")
	}
	if err := r.validateConfig(spec.ConnectionSpecification, config, operation); err != nil {
		return nil, err
	}
	return config, nil
}

func (r *Runner) requireSource(cmd Command) (core.Source, error) {
	if r.role.source == nil {
		return nil, airbyteerrors.Newf(airbyteerrors.ErrorTypeInternal, "%s is only valid for a source", cmd)
	}
	return r.role.source, nil
}

func (r *Runner) requireDestination(cmd Command) (core.Destination, error) {
	if r.role.destination == nil {
		return nil, airbyteerrors.Newf(airbyteerrors.ErrorTypeInternal, "%s is only valid for a destination", cmd)
	}
	return r.role.destination, nil
}
