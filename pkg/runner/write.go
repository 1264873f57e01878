package runner

import (
	"context"

	"go.uber.org/zap"

	"github.com/Javier162380/airbyte/pkg/airbyteerrors"
	"github.com/Javier162380/airbyte/pkg/connector/core"
	"github.com/Javier162380/airbyte/pkg/jsonl"
	"github.com/Javier162380/airbyte/pkg/protocol"
)

// consumeWriteStream decodes standard input line by line and drives the
// consumer: Start once, Accept per message in input order, Close exactly
// once however the loop terminates. A line that fails to decode is logged
// and skipped; an Accept failure aborts the run.
func (r *Runner) consumeWriteStream(ctx context.Context, consumer core.MessageConsumer) (err error) {
	defer func() {
		if cerr := consumer.Close(); cerr != nil {
			r.logger.Warn("failed to close message consumer", zap.Error(cerr))
			if err == nil {
				err = airbyteerrors.Wrap(cerr, airbyteerrors.ErrorTypeConnection, "failed to close message consumer")
			}
		}
	}()

	if err := consumer.Start(ctx); err != nil {
		return airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConnection, "failed to start message consumer")
	}

	decodeErr := jsonl.DecodeEach(r.input,
		func(msg *protocol.Message) error {
			r.metrics.LineConsumed()
			if err := consumer.Accept(ctx, msg); err != nil {
				return airbyteerrors.Wrap(err, airbyteerrors.ErrorTypeConnection, "consumer rejected message")
			}
			r.metrics.MessageAccepted()
			return nil
		},
		func(line []byte) {
			r.metrics.LineConsumed()
			r.metrics.MalformedLine()
			r.logger.Error("received invalid message", zap.ByteString("line", line))
		})
	if decodeErr != nil {
		return decodeErr
	}
	return nil
}
