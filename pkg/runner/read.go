package runner

import (
	"context"

	"go.uber.org/zap"

	"github.com/Javier162380/airbyte/pkg/airbyteerrors"
	"github.com/Javier162380/airbyte/pkg/connector/core"
)

// consumeReadStream drains the iterator strictly in production order,
// forwarding each message to the sink before pulling the next. The
// iterator's underlying resource is released exactly once on every exit
// path: normal exhaustion, a mid-stream iterator error, or a panic in the
// sink.
func (r *Runner) consumeReadStream(ctx context.Context, iterator core.MessageIterator) (err error) {
	defer func() {
		if cerr := iterator.Close(); cerr != nil {
			r.logger.Warn("failed to close message iterator", zap.Error(cerr))
			if err == nil {
				err = airbyteerrors.Wrap(cerr, airbyteerrors.ErrorTypeConnection, "failed to close message iterator")
			}
		}
	}()

	for iterator.Next(ctx) {
		r.emit(iterator.Message())
	}
	if ierr := iterator.Err(); ierr != nil {
		return airbyteerrors.Wrap(ierr, airbyteerrors.ErrorTypeConnection, "source read failed")
	}
	return nil
}
