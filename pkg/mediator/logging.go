package mediator

import (
	"context"
	"log/slog"
	"time"

	"github.com/settleflow/processor/pkg/domain"
)

// LoggingMiddleware logs command dispatch with timing information.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd domain.Command) domain.Result {
			start := time.Now()

			logger.InfoContext(ctx, "dispatching command",
				slog.String("command_type", cmd.CommandType()),
				slog.String("command_id", cmd.ID().String()),
				slog.String("aggregate_id", cmd.Aggregate().String()),
			)

			result := next.Handle(ctx, cmd)
			duration := time.Since(start)

			if result.IsFailed() {
				logger.ErrorContext(ctx, "command dispatch failed",
					slog.String("command_type", cmd.CommandType()),
					slog.String("command_id", cmd.ID().String()),
					slog.String("error_code", result.Error.Code),
					slog.String("error", result.Error.Message),
					slog.Int64("duration_ms", duration.Milliseconds()),
				)
				return result
			}

			logger.InfoContext(ctx, "command dispatched",
				slog.String("command_type", cmd.CommandType()),
				slog.String("command_id", cmd.ID().String()),
				slog.Int64("duration_ms", duration.Milliseconds()),
			)

			return result
		})
	}
}
