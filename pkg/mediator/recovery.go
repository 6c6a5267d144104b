package mediator

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/settleflow/processor/pkg/domain"
)

// RecoveryMiddleware converts a panicking command handler into a failed
// Result. The panic is fatal to the current invocation only.
func RecoveryMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd domain.Command) (result domain.Result) {
			defer func() {
				if r := recover(); r != nil {
					logger.ErrorContext(ctx, "command handler panicked",
						slog.String("command_type", cmd.CommandType()),
						slog.String("command_id", cmd.ID().String()),
						slog.Any("panic", r),
						slog.String("stack_trace", string(debug.Stack())),
					)
					result = domain.Failuref(domain.CodeInternal, "command handler panicked: %v", r)
				}
			}()

			return next.Handle(ctx, cmd)
		})
	}
}
